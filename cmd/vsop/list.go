package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/vsop87/internal/adapter/store/catalog"
	"go.ngs.io/vsop87/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the model files under the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		models, err := catalog.New(cfg.DataDir).ListModels()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BODY\tVERSION\tFORMAT\tPATH")
		for _, m := range models {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Body, m.Version, m.Format, m.Path)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().String("data-dir", "", "directory holding model files (default ./data)")
	_ = viper.BindPFlag("data_dir", listCmd.Flags().Lookup("data-dir"))
	rootCmd.AddCommand(listCmd)
}
