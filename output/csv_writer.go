package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"hourlog/worklog"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, records []worklog.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	return WriteCSV(file, records)
}

// WriteCSV writes records with a header row to out.
func WriteCSV(out io.Writer, records []worklog.Record) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, recordRow(record))
	}
	return writeCSVRows(out, RecordHeaders, rows)
}

func writeCSVRows(out io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
