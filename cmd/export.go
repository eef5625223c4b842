package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hourlog/output"
	"hourlog/storage"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportBatch  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored worklog records from SQLite to CSV/Excel",
	Long: `Export stored worklog records from SQLite.

Modes:
- raw: export each record (Employee, Date, Time, Description, Subtask)
- daily: export per employee and date aggregates (start/end, worked hours, break hours)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw rows to CSV
  hourlog export --mode raw --db ./hourlog.db --output ./worklogs.csv

  # Export one stored batch to Excel
  hourlog export --mode raw --batch 01JQ8Z4W5V9Y3M2T6K7B0N1C8D --output ./batch.xlsx

  # Export daily summary to CSV
  hourlog export --mode daily --db ./hourlog.db --output ./daily-summary.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		store, err := storage.OpenSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var stored []storage.StoredRecord
		if strings.TrimSpace(exportBatch) != "" {
			stored, err = store.ListBatch(strings.TrimSpace(exportBatch))
		} else {
			stored, err = store.ListRecords()
		}
		if err != nil {
			return err
		}
		records := storage.Records(stored)

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(records), format, exportOutput)
		case "daily":
			summaries := output.BuildDailySummaries(records)
			if err := output.WriteDailySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export completed. Days: %d, Mode: daily, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, daily)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	case "json":
		return "json"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|daily")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel|json (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "./hourlog.db", "Path to local SQLite database")
	exportCmd.Flags().StringVar(&exportBatch, "batch", "", "Export only the records of one batch ID")

	_ = exportCmd.MarkFlagRequired("output")
}
