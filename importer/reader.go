// Package importer reads record files, such as reviewed CSV or Excel exports,
// back into canonical records.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"hourlog/worklog"
)

type Reader interface {
	Read(path string) ([]worklog.RawRecord, error)
}

// Fields maps the export column names and their common variants onto the
// canonical record fields.
var Fields = worklog.FieldMap{
	Employee:    []string{"Employee", "Name"},
	Date:        []string{"Date", "Work Date"},
	Time:        []string{"Time", "Time Range"},
	StartTime:   []string{"Start Time", "Start"},
	EndTime:     []string{"End Time", "End"},
	Description: []string{"Description", "Task"},
	Subtask:     []string{"Subtask"},
	Status:      []string{"Status"},
}

type Result struct {
	RowsRead    int
	RowsSkipped int
	Records     []worklog.Record
}

func ReaderForFormat(format string) (Reader, error) {
	switch worklog.NormalizeKey(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// ReadFile reads one file and standardizes its rows. Rows without employee,
// date and time are skipped.
func ReadFile(path, format string) (*Result, error) {
	sourceFormat, err := inferFormat(path, format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(sourceFormat)
	if err != nil {
		return nil, err
	}

	rows, err := reader.Read(path)
	if err != nil {
		return nil, err
	}

	result := &Result{RowsRead: len(rows), Records: make([]worklog.Record, 0, len(rows))}
	for _, row := range rows {
		record := Fields.Standardize(row)
		if record.Employee == "" && record.Date == "" && record.Time == "" {
			result.RowsSkipped++
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func rowValues(headers []string, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return values
}
