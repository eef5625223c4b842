package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"hourlog/worklog"
)

func sampleRecords() []worklog.Record {
	return []worklog.Record{
		{Employee: "Markus Lange", Date: "04:01:2025", Time: "9:00-12:00", StartTime: "9:00", EndTime: "12:00", Description: "Abstimmung, Runde 2", Subtask: "Abstimmung"},
		{Employee: "John Doe", Date: "1 April, 2025", Time: "9-12", Description: "Test Task", Status: worklog.StatusUnverified},
	}
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   Writer
	}{
		{format: "csv", want: &CSVWriter{}},
		{format: " Excel ", want: &ExcelWriter{}},
		{format: "xlsx", want: &ExcelWriter{}},
		{format: "JSON", want: &JSONWriter{}},
	}
	for _, tc := range tests {
		got, err := WriterForFormat(tc.format)
		if err != nil {
			t.Fatalf("WriterForFormat(%q): %v", tc.format, err)
		}
		if reflect.TypeOf(got) != reflect.TypeOf(tc.want) {
			t.Fatalf("WriterForFormat(%q) = %T, want %T", tc.format, got, tc.want)
		}
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	want := [][]string{
		RecordHeaders,
		{"Markus Lange", "04:01:2025", "9:00-12:00", "Abstimmung, Runde 2", "Abstimmung"},
		{"John Doe", "1 April, 2025", "9-12", "Test Task", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected csv rows:\nwant %v\ngot  %v", want, rows)
	}
}

func TestExcelWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.xlsx")
	if err := (&ExcelWriter{}).Write(path, sampleRecords()); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Worklogs")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], RecordHeaders) {
		t.Fatalf("unexpected headers: %v", rows[0])
	}
	if rows[1][0] != "Markus Lange" || rows[2][2] != "9-12" {
		t.Fatalf("unexpected rows: %v", rows[1:])
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.json")
	if err := (&JSONWriter{}).Write(path, sampleRecords()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}

	var decoded []worklog.Record
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleRecords()) {
		t.Fatalf("unexpected decoded records: %+v", decoded)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("write empty json: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestWriteDailySummaries(t *testing.T) {
	t.Parallel()

	summaries := BuildDailySummaries([]worklog.Record{rangeRecord("Anna", "04:01:2025", "8:00", "9:30")})
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "daily.csv")
	if err := WriteDailySummaries(csvPath, "csv", summaries); err != nil {
		t.Fatalf("write daily csv: %v", err)
	}
	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open daily csv: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read daily csv: %v", err)
	}
	want := []string{"Anna", "04:01:2025", "8:00", "9:30", "1.50", "0.00", "1", "0"}
	if len(rows) != 2 || !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("unexpected daily rows: %v", rows)
	}

	if err := WriteDailySummaries(filepath.Join(dir, "daily.xlsx"), "excel", summaries); err != nil {
		t.Fatalf("write daily excel: %v", err)
	}
	if err := WriteDailySummaries(filepath.Join(dir, "daily.pdf"), "pdf", summaries); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
