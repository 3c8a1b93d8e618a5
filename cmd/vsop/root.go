package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/vsop87/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "vsop",
	Short: "VSOP87 model toolkit",
	Long:  "vsop reads VSOP87 planetary theory files, evaluates positions, truncates series to a precision budget and exports sampled tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		return config.Init(viper.GetViper(), cfgFile)
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .vsop.yaml)")
}
