package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hourlog/importer"
	"hourlog/storage"
)

var (
	importInputs []string
	importFormat string
	importDBPath string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import reviewed record files (CSV/Excel) into the local database",
	Long: `Import record files into the local SQLite database.

Files use the export columns Employee, Date, Time, Description, Subtask
(Start Time, End Time and Status are recognized as well). Each file is
stored as its own batch.`,
	Example: `
  # Import a reviewed CSV export
  hourlog import -i ./reviewed.csv

  # Import several files into a custom database
  hourlog import -i ./week1.xlsx -i ./week2.csv --db ./hourlog.db

  # Check what would be imported
  hourlog import -i ./reviewed.csv --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.OutOrStdout(), importInputs, importFormat, importDBPath, importDryRun)
	},
}

func runImport(out io.Writer, inputs []string, format, dbPath string, dryRun bool) error {
	var store *storage.SQLiteStore
	if !dryRun {
		opened, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer opened.Close()
		store = opened
	}

	for _, path := range inputs {
		result, err := importer.ReadFile(path, format)
		if err != nil {
			return err
		}
		if store == nil {
			fmt.Fprintf(out, "%s: %d row(s) read, %d skipped, %d would be imported\n", path, result.RowsRead, result.RowsSkipped, len(result.Records))
			continue
		}

		batchID, inserted, err := store.InsertRecords(result.Records)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Fprintf(out, "%s: %d row(s) read, %d skipped, %d imported as batch %s\n", path, result.RowsRead, result.RowsSkipped, inserted, batchID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./hourlog.db", "Path to local SQLite database")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Read and report without storing")

	_ = importCmd.MarkFlagRequired("input")
}
