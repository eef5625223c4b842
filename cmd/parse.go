package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hourlog/config"
	"hourlog/extract"
	"hourlog/internal/classify"
	"hourlog/internal/logging"
	"hourlog/output"
	"hourlog/storage"
)

var (
	parseInput      string
	parseTaskPath   []string
	parseOutput     string
	parseFormat     string
	parseDBPath     string
	parseSave       bool
	parseStrategies []string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract time-log records from free text",
	Long: `Extract time-log records from a text file or stdin.

Strategies are tried in the configured order (default: openai, gemini, regex);
the first one that succeeds wins. Failures of earlier strategies are printed
to stderr. Records go to stdout as JSON unless --output or --format say
otherwise.`,
	Example: `
  # Parse a file and print JSON
  hourlog parse -i ./report.txt

  # Parse stdin with the deterministic scanner only
  cat ./report.txt | hourlog parse --strategy regex

  # Override the subtask of every record and write Excel
  hourlog parse -i ./report.txt --task Marketing --task Campaign --output ./records.xlsx

  # Store the parsed records as one batch
  hourlog parse -i ./report.txt --save --db ./hourlog.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		text, err := readParseInput(parseInput, cmd.InOrStdin())
		if err != nil {
			return err
		}

		service, _, err := newExtractionService(cfg, parseStrategies)
		if err != nil {
			return err
		}

		ctx := context.Background()
		ctx = logging.ContextWithLogger(ctx, logging.FromContext(ctx).With("command", "parse"))
		outcome, err := service.Parse(ctx, text, extract.OverrideFromPath(parseTaskPath))
		if err != nil {
			return err
		}

		writeDiagnostics(cmd.ErrOrStderr(), outcome)

		format := parseFormat
		if strings.TrimSpace(format) == "" {
			format = detectParseFormat(parseOutput)
		}
		if err := writeParseOutcome(cmd.OutOrStdout(), parseOutput, format, outcome); err != nil {
			return err
		}

		if !parseSave {
			return nil
		}
		return saveParsedRecords(cmd.ErrOrStderr(), parseDBPath, outcome)
	},
}

func readParseInput(path string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", path, err)
	}
	return string(content), nil
}

func writeDiagnostics(errOut io.Writer, outcome extract.Outcome) {
	for _, message := range outcome.Errors {
		fmt.Fprintln(errOut, "error:", message)
	}
	for _, message := range outcome.Warnings {
		fmt.Fprintln(errOut, "warning:", message)
	}
	for _, conflict := range classify.Conflicts(outcome.Records) {
		kind := "overlap"
		if conflict.Duplicate {
			kind = "duplicate"
		}
		fmt.Fprintf(errOut, "warning: %s for %s on %s: %s and %s\n",
			kind, conflict.First.Employee, conflict.First.Date, conflict.First.Time, conflict.Second.Time)
	}
	if outcome.Strategy != "" {
		fmt.Fprintf(errOut, "Parsed %d record(s) with strategy %s\n", len(outcome.Records), outcome.Strategy)
	}
}

// writeParseOutcome writes records to path, or to out when path is empty.
func writeParseOutcome(out io.Writer, path, format string, outcome extract.Outcome) error {
	if strings.TrimSpace(path) != "" {
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		return writer.Write(path, outcome.Records)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return output.WriteJSON(out, outcome.Records)
	case "csv":
		return output.WriteCSV(out, outcome.Records)
	default:
		return fmt.Errorf("format %s requires --output", format)
	}
}

func detectParseFormat(path string) string {
	if strings.TrimSpace(path) == "" {
		return "json"
	}
	return detectExportFormat(path)
}

func saveParsedRecords(errOut io.Writer, dbPath string, outcome extract.Outcome) error {
	if len(outcome.Records) == 0 {
		fmt.Fprintln(errOut, "Nothing to save.")
		return nil
	}

	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	batchID, inserted, err := store.InsertRecords(outcome.Records)
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut, "Saved %d record(s) as batch %s\n", inserted, batchID)
	return nil
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "Input text file (default: stdin)")
	parseCmd.Flags().StringArrayVar(&parseTaskPath, "task", nil, "Task path segment; repeat for nested paths, the last one overrides every subtask")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Output format: json|csv|excel (optional, inferred from output extension)")
	parseCmd.Flags().StringVar(&parseDBPath, "db", "./hourlog.db", "Path to local SQLite database used with --save")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Store parsed records in the local database")
	parseCmd.Flags().StringSliceVar(&parseStrategies, "strategy", nil, "Strategy order override, e.g. --strategy regex or --strategy gemini,regex")
}
