package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classboard",
	Short: "classboard shows which classes are running and which are next",
	Long: `Classboard reads a weekly class schedule (csv files or postgres) and
serves a dashboard of the classes in progress and the ones still to come today`,
}

var configPath string

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml or json config file")
}
