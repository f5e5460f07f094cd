/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the classboard service",
	Long: `The classboard service serves the dashboard, a json api and a live feed
of the schedule (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
