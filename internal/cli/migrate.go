package cli

import (
	"log"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := openDatabase()
		if err != nil {
			return err
		}
		log.Printf("Schema of %s database is up to date", cfg.DatabaseDriver)
		return nil
	},
}
