package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go.ngs.io/vsop87/internal/adapter/store/catalog"
	"go.ngs.io/vsop87/internal/domain"
)

var calcCmd = &cobra.Command{
	Use:   "calc <model-file>",
	Short: "Print the equatorial J2000 position of a body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		tt, _ := flags.GetFloat64("tt")
		at, _ := flags.GetString("time")
		withVelocity, _ := flags.GetBool("velocity")

		if at != "" {
			if flags.Changed("tt") {
				return fmt.Errorf("--tt and --time are mutually exclusive")
			}
			t, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("invalid time (expected RFC3339): %w", err)
			}
			tt = domain.DaysSinceJ2000(t)
		}

		m, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		defer m.Release()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "body      %s\n", m.Body)
		fmt.Fprintf(out, "version   %s\n", m.Version)
		fmt.Fprintf(out, "terms     %d\n", m.TermCount())
		fmt.Fprintf(out, "tt        %.6f\n", tt)
		fmt.Fprintf(out, "time      %s\n", domain.TimeFromJ2000(tt).Format(time.RFC3339))

		if withVelocity {
			pos, vel, err := domain.CalcPositionVelocity(m, tt)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "position  %18.12f %18.12f %18.12f au\n", pos.X, pos.Y, pos.Z)
			fmt.Fprintf(out, "velocity  %18.12f %18.12f %18.12f au/day\n", vel.X, vel.Y, vel.Z)
			return nil
		}

		pos, err := domain.CalcPosition(m, tt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "position  %18.12f %18.12f %18.12f au\n", pos.X, pos.Y, pos.Z)
		return nil
	},
}

func init() {
	f := calcCmd.Flags()
	f.Float64("tt", 0, "days from J2000 (terrestrial time)")
	f.String("time", "", "RFC3339 instant, used instead of --tt")
	f.Bool("velocity", false, "also print velocity (heliocentric spherical J2000 models only)")
	rootCmd.AddCommand(calcCmd)
}
