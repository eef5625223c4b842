package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hourlog/worklog"
)

type JSONWriter struct{}

func (w *JSONWriter) Write(path string, records []worklog.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json output %s: %w", path, err)
	}
	defer file.Close()

	return WriteJSON(file, records)
}

// WriteJSON writes records as an indented JSON array. A nil slice is written
// as an empty array.
func WriteJSON(out io.Writer, records []worklog.Record) error {
	if records == nil {
		records = []worklog.Record{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
