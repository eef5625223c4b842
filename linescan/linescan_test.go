package linescan

import (
	"context"
	"strings"
	"testing"

	"hourlog/worklog"
)

type fakeTaxonomy map[string]string

func (f fakeTaxonomy) FindSubtask(description string) (string, bool) {
	for needle, label := range f {
		if strings.Contains(strings.ToLower(description), needle) {
			return label, true
		}
	}
	return "", false
}

func TestScan_ShortForm(t *testing.T) {
	t.Parallel()

	scanner := New(fakeTaxonomy{"test": "Should Not Be Used"})
	result := scanner.Scan("John Doe\n1 April, 2025\n9:00 – 12:00 → Test Task")

	if !result.ShortForm {
		t.Fatalf("expected short-form match")
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	record := result.Records[0]
	want := worklog.Record{
		Employee:    "John Doe",
		Date:        "1 April, 2025",
		Time:        "9:00-12:00",
		StartTime:   "9:00",
		EndTime:     "12:00",
		Description: "Test Task",
		Status:      worklog.StatusUnverified,
	}
	if record != want {
		t.Fatalf("unexpected short-form record:\nwant %+v\ngot  %+v", want, record)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
}

func TestScan_EmployeeHeaderBlockUsesLineScanner(t *testing.T) {
	t.Parallel()

	scanner := New(fakeTaxonomy{"abstimmung": "Abstimmung"})
	result := scanner.Scan("Employee 1: Markus Lange\n1 April, 2025\n9:00 – 12:00 → Frontend-Insider-Tool Abstimmung")

	if result.ShortForm {
		t.Fatalf("employee header input must not take the short-form path")
	}
	want := worklog.Record{
		Employee:    "Markus Lange",
		Date:        "04:01:2025",
		Time:        "9:00-12:00",
		StartTime:   "9:00",
		EndTime:     "12:00",
		Description: "Frontend-Insider-Tool Abstimmung",
		Subtask:     "Abstimmung",
	}
	if len(result.Records) != 1 || result.Records[0] != want {
		t.Fatalf("unexpected records:\nwant %+v\ngot  %+v", want, result.Records)
	}
}

func TestScan_MultiEmployeeBlocks(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Employee 1: Markus Lange",
		"1 April, 2025",
		"9:00 – 12:00 → Frontend-Insider-Tool Abstimmung",
		"13:00 - 15:30 -> Hotline",
		"2025-04-02",
		"8 - 10 Lunch prep",
		"",
		"Employee 2: Sarah Kim",
		"Mittwoch, 2. April 2025",
		"10:00 – 11:00 – hotline callbacks",
	}, "\n")

	scanner := New(fakeTaxonomy{"hotline": "Hotline", "abstimmung": "Abstimmung"})
	result := scanner.Scan(text)

	if result.ShortForm {
		t.Fatalf("multi-line input must not take the short-form path")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	want := []worklog.Record{
		{Employee: "Markus Lange", Date: "04:01:2025", Time: "9:00-12:00", StartTime: "9:00", EndTime: "12:00", Description: "Frontend-Insider-Tool Abstimmung", Subtask: "Abstimmung"},
		{Employee: "Markus Lange", Date: "04:01:2025", Time: "13:00-15:30", StartTime: "13:00", EndTime: "15:30", Description: "Hotline", Subtask: "Hotline"},
		{Employee: "Markus Lange", Date: "04:02:2025", Time: "8:00-10:00", StartTime: "8:00", EndTime: "10:00", Description: "Lunch prep", Subtask: worklog.AmbiguousSubtask},
		{Employee: "Sarah Kim", Date: "04:02:2025", Time: "10:00-11:00", StartTime: "10:00", EndTime: "11:00", Description: "hotline callbacks", Subtask: "Hotline"},
	}
	if len(result.Records) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(result.Records), result.Records)
	}
	for i := range want {
		if result.Records[i] != want[i] {
			t.Fatalf("record %d mismatch:\nwant %+v\ngot  %+v", i, want[i], result.Records[i])
		}
	}
}

func TestScan_RangeBeforeContextIsIgnored(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"9:00 - 10:00 early work",
		"Employee 1: Ana",
		"9:30 - 10:30 still no date",
		"1/4/2025",
		"11:00 - 12:00 Review",
	}, "\n")

	result := New(nil).Scan(text)
	if len(result.Records) != 1 {
		t.Fatalf("expected only the record after employee and date, got %+v", result.Records)
	}
	if result.Records[0].Description != "Review" || result.Records[0].Date != "04:01:2025" {
		t.Fatalf("unexpected record: %+v", result.Records[0])
	}
}

func TestScan_EmployeeHeaderResetsDate(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Employee 1: Ana",
		"1/4/2025",
		"9:00 - 10:00 first",
		"employee 2: Ben",
		"10:00 - 11:00 orphaned",
	}, "\n")

	result := New(nil).Scan(text)
	if len(result.Records) != 1 || result.Records[0].Employee != "Ana" {
		t.Fatalf("expected date context to reset on new employee, got %+v", result.Records)
	}
}

func TestScan_InvalidDateClearsContextAndIsReported(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Employee 1: Ana",
		"1 April, 2025",
		"31 April, 2025",
		"9:00 - 10:00 after bad date",
	}, "\n")

	result := New(nil).Scan(text)
	if len(result.Records) != 0 {
		t.Fatalf("expected no records after invalid date, got %+v", result.Records)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Invalid date '31 April, 2025'") {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestScan_InvalidTimesFallBackToRawValues(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Employee 1: Ana",
		"1.4.2025",
		"9:75 - 25:00 impossible slot",
		"9:0 - 12 loose slot",
	}, "\n")

	result := New(nil).Scan(text)
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %+v", result.Records)
	}
	if result.Records[0].Time != "9:75-25:00" {
		t.Fatalf("expected raw times to be kept, got %q", result.Records[0].Time)
	}
	if result.Records[1].Time != "9:0-12:00" {
		t.Fatalf("expected raw start and normalized end, got %q", result.Records[1].Time)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected one error per bad time, got %v", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Invalid start time '9:75'") ||
		!strings.HasPrefix(result.Errors[1], "Invalid end time '25:00'") ||
		!strings.HasPrefix(result.Errors[2], "Invalid start time '9:0'") {
		t.Fatalf("unexpected error messages: %v", result.Errors)
	}
}

func TestScan_UnrecognizedLinesAreIgnored(t *testing.T) {
	t.Parallel()

	result := New(nil).Scan("hello there\nnothing to see\n\nstill nothing\nmore")
	if len(result.Records) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestNormalizeGlyphs(t *testing.T) {
	t.Parallel()

	got := NormalizeGlyphs("9:00 – 12:00 → a\r\n10 — 11 ⇒ b")
	want := "9:00 - 12:00 -> a\n10 - 11 -> b"
	if got != want {
		t.Fatalf("unexpected normalization:\nwant %q\ngot  %q", want, got)
	}
}

func TestScannerExtract_ExposesCanonicalKeys(t *testing.T) {
	t.Parallel()

	scanner := New(nil)
	extraction, err := scanner.Extract(context.Background(), "Employee 1: Ana\n1/4/2025\n9 - 17:30 Workshop\n9:99 - 10 typo")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(extraction.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(extraction.Records))
	}
	first := scanner.Fields().Standardize(extraction.Records[0])
	if first.Employee != "Ana" || first.Time != "9:00-17:30" || first.Subtask != worklog.AmbiguousSubtask {
		t.Fatalf("unexpected standardized record: %+v", first)
	}
	if len(extraction.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", extraction.Warnings)
	}
}

func TestScannerExtract_HonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).Extract(ctx, "anything"); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
