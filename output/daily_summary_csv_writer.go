package output

import (
	"fmt"
	"os"
)

func writeDailySummariesCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	return writeCSVRows(file, summaryHeaders, rows)
}
