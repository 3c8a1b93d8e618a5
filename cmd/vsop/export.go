package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/vsop87/internal/adapter/store/catalog"
	"go.ngs.io/vsop87/internal/adapter/store/netcdf"
	"go.ngs.io/vsop87/internal/config"
	"go.ngs.io/vsop87/internal/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export <model-file> <table.nc>",
	Short: "Sample a model into a NetCDF table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		flags := cmd.Flags()
		startTT, _ := flags.GetFloat64("start-tt")
		endTT, _ := flags.GetFloat64("end-tt")
		check, _ := flags.GetBool("check")

		m, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		defer m.Release()

		table, err := netcdf.BuildTable(m, startTT, endTT, cfg.Export.StepDays)
		if err != nil {
			return err
		}
		if err := netcdf.WriteTable(args[1], table); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wrote %d samples of %s %s to %s (velocity: %v)\n",
			len(table.TT), table.Body, table.Version, args[1], table.HasVelocity())

		if !check {
			return nil
		}
		maxErr, err := interpolationError(m, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "max interpolation error at midpoints: %.3e au\n", maxErr)
		return nil
	},
}

// interpolationError reads the table back and compares its interpolated
// positions halfway between samples with the model itself.
func interpolationError(m *domain.Model, path string) (float64, error) {
	table, err := netcdf.ReadTable(path)
	if err != nil {
		return 0, err
	}
	ip, err := table.Interpolator()
	if err != nil {
		return 0, err
	}

	maxErr := 0.0
	for i := 0; i+1 < len(table.TT); i++ {
		tt := 0.5 * (table.TT[i] + table.TT[i+1])
		got, err := ip.PositionAt(tt)
		if err != nil {
			return 0, err
		}
		want, err := domain.CalcPosition(m, tt)
		if err != nil {
			return 0, err
		}
		maxErr = math.Max(maxErr, got.Sub(want).Norm())
	}
	return maxErr, nil
}

func init() {
	f := exportCmd.Flags()
	f.Float64("start-tt", 0, "first sample, days from J2000")
	f.Float64("end-tt", 36525, "last sample, days from J2000")
	f.Float64("step", 1.0, "days between samples")
	f.Bool("check", false, "read the table back and report the interpolation error")

	_ = viper.BindPFlag("export.step_days", f.Lookup("step"))

	rootCmd.AddCommand(exportCmd)
}
