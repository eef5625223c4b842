package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hourlog/worklog"
)

type ExcelReader struct{}

func (r *ExcelReader) Read(path string) ([]worklog.RawRecord, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	records := make([]worklog.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, worklog.NewRawRecord(i+2, rowValues(rows[0], row)))
	}

	return records, nil
}
