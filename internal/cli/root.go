// Package cli holds the yamdb command line: the API server and the
// database maintenance commands.
package cli

import (
	"fmt"
	"os"

	"yamdb/internal/config"
	"yamdb/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "YaMDB - reviews of books, films and music",
	Long: `YaMDB collects user reviews of works (titles) grouped by category and genre.

Configuration comes from the environment, an optional .env file and an
optional config file passed with --config.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (yaml, json, toml or env)")
	rootCmd.AddCommand(serveCmd, migrateCmd, loadCSVCmd)
}

// openDatabase loads the configuration and connects to the configured
// database, creating or upgrading the schema.
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
