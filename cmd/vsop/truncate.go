package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/vsop87/internal/adapter/store/catalog"
	"go.ngs.io/vsop87/internal/config"
	"go.ngs.io/vsop87/internal/usecase"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate <input> <output>",
	Short: "Drop the terms a precision budget allows and write a compact model",
	Long: `truncate removes the smallest terms of every coordinate as long as their
summed amplitude, over the given interval, stays within the threshold.
Angles are budgeted in radians; distances in AU scaled by the body's mean
distance from the Sun. The result is written in the compact format.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		reportPath, _ := cmd.Flags().GetString("report")

		uc := usecase.NewTruncateUseCase(catalog.LoadFile)
		result, err := uc.Execute(usecase.TruncateRequest{
			Input:      args[0],
			Output:     args[1],
			ReportPath: reportPath,
			StartTT:    cfg.Truncate.StartTT,
			EndTT:      cfg.Truncate.EndTT,
			Threshold:  cfg.Truncate.Threshold,
		})
		if err != nil {
			return err
		}

		for _, ref := range result.Unsorted {
			log.Printf("Warning: %s coordinate %d series %d is not sorted by amplitude; truncation may not be optimal",
				args[0], ref.Coord, ref.Series)
		}

		r := result.Report
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s: kept %d of %d terms (%.1f%%)\n",
			r.Body, r.Version, r.TermsActive, r.TermsTotal, 100*r.Ratio())
		for _, c := range r.Coordinates {
			fmt.Fprintf(out, "  coord %d: series %d/%d, terms %d/%d\n",
				c.Index, c.SeriesActive, c.SeriesTotal, c.TermsActive, c.TermsTotal)
		}
		return nil
	},
}

func init() {
	f := truncateCmd.Flags()
	f.Float64("threshold", 1e-7, "error budget (radians, or AU before body scaling)")
	f.Float64("start-tt", -36525, "start of the validity interval, days from J2000")
	f.Float64("end-tt", 36525, "end of the validity interval, days from J2000")
	f.String("report", "", "write a TOML truncation report to this path")

	_ = viper.BindPFlag("truncate.threshold", f.Lookup("threshold"))
	_ = viper.BindPFlag("truncate.start_tt", f.Lookup("start-tt"))
	_ = viper.BindPFlag("truncate.end_tt", f.Lookup("end-tt"))

	rootCmd.AddCommand(truncateCmd)
}
