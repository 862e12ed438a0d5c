package cli

import (
	"fmt"

	"yamdb/internal/csvload"

	"github.com/spf13/cobra"
)

var csvDir string

var loadCSVCmd = &cobra.Command{
	Use:   "load-csv",
	Short: "Import the static CSV data set",
	Long: `Import categories, genres, titles, users, reviews and comments from CSV
files in a directory. Expected files: category.csv, genre.csv, titles.csv,
genre_title.csv, users.csv, review.csv and comments.csv. Missing files are
skipped.

Examples:
  yamdb load-csv --dir static/data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		counts, err := csvload.New(db, csvDir).Load()
		if err != nil {
			return fmt.Errorf("import aborted: %w", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s\n", total, csvDir)
		return nil
	},
}

func init() {
	loadCSVCmd.Flags().StringVar(&csvDir, "dir", "static/data", "Directory containing the CSV files")
}
