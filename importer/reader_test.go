package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"hourlog/output"
	"hourlog/worklog"
)

func TestReadFile_CSVRoundTripsExport(t *testing.T) {
	t.Parallel()

	records := []worklog.Record{
		{Employee: "Markus Lange", Date: "04:01:2025", Time: "9:00-12:00", StartTime: "9:00", EndTime: "12:00", Description: "Abstimmung", Subtask: "Abstimmung"},
		{Employee: "Sarah Kim", Date: "04:02:2025", Time: "10:00-11:00", StartTime: "10:00", EndTime: "11:00", Description: "Hotline", Subtask: "Hotline"},
	}
	path := filepath.Join(t.TempDir(), "records.csv")
	if err := (&output.CSVWriter{}).Write(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	result, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if result.RowsRead != 2 || result.RowsSkipped != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if !reflect.DeepEqual(result.Records, records) {
		t.Fatalf("records did not round-trip:\nwant %+v\ngot  %+v", records, result.Records)
	}
}

func TestReadFile_ExcelRoundTripsExport(t *testing.T) {
	t.Parallel()

	records := []worklog.Record{
		{Employee: "Anna", Date: "04:01:2025", Time: "8:00-9:30", StartTime: "8:00", EndTime: "9:30", Description: "Docs", Subtask: "Campaign"},
	}
	path := filepath.Join(t.TempDir(), "records.xlsx")
	if err := (&output.ExcelWriter{}).Write(path, records); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	result, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !reflect.DeepEqual(result.Records, records) {
		t.Fatalf("records did not round-trip:\nwant %+v\ngot  %+v", records, result.Records)
	}
}

func TestReadFile_HeaderVariantsAndSkippedRows(t *testing.T) {
	t.Parallel()

	content := "name,work_date,Start Time,End Time,task,STATUS\n" +
		"John Doe,1 April 2025,9:00,12:00,Test Task,Unverified\n" +
		",,,,,\n"
	path := filepath.Join(t.TempDir(), "variants.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	result, err := ReadFile(path, "csv")
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if result.RowsRead != 2 || result.RowsSkipped != 1 || len(result.Records) != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	want := worklog.Record{
		Employee:    "John Doe",
		Date:        "1 April 2025",
		Time:        "9:00-12:00",
		StartTime:   "9:00",
		EndTime:     "12:00",
		Description: "Test Task",
		Status:      worklog.StatusUnverified,
	}
	if result.Records[0] != want {
		t.Fatalf("unexpected record:\nwant %+v\ngot  %+v", want, result.Records[0])
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile("records.pdf", ""); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := ReaderForFormat("pdf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
