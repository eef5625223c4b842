package output

import (
	"fmt"
	"strings"

	"hourlog/worklog"
)

// Writer persists records to a file.
type Writer interface {
	Write(path string, records []worklog.Record) error
}

// RecordHeaders are the export columns of a record file.
var RecordHeaders = []string{"Employee", "Date", "Time", "Description", "Subtask"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func recordRow(record worklog.Record) []string {
	return []string{record.Employee, record.Date, record.Time, record.Description, record.Subtask}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
