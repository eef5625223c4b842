package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"hourlog/worklog"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]worklog.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	records := make([]worklog.RawRecord, 0, 128)
	for rowNumber := 2; ; rowNumber++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber, err)
		}

		records = append(records, worklog.NewRawRecord(rowNumber, rowValues(headers, row)))
	}

	return records, nil
}
