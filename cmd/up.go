package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Pjt727/classboard/config"
	"github.com/Pjt727/classboard/data"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Runs the up migrations",
	Long:  `Runs the up migrations for the postgres schedule source and errors if they cannot be applied`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Source.DatabaseURL == "" {
			slog.Error("No database configured, set source.database_url or DB_CONN")
			return errNoDatabase
		}
		if err := data.MigrateUp(cfg.Source.DatabaseURL); err != nil {
			slog.Error("Could not run up migrations", "err", err)
			return err
		}
		slog.Info("Database has been synced with any up migrations")
		return nil
	},
}

func init() {
	appCmd.AddCommand(upCmd)
}
