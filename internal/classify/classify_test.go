package classify

import (
	"testing"

	"hourlog/worklog"
)

func record(employee, date, start, end string) worklog.Record {
	return worklog.Record{Employee: employee, Date: date, Time: worklog.TimeRange(start, end), StartTime: start, EndTime: end}
}

func TestConflicts_OverlapAndDuplicate(t *testing.T) {
	t.Parallel()

	records := []worklog.Record{
		record("Anna", "04:01:2025", "9:00", "11:00"),
		record("Anna", "04:01:2025", "10:30", "12:00"),
		record("Anna", "04:01:2025", "9:00", "11:00"),
		record("Anna", "04:01:2025", "12:00", "13:00"),
	}

	conflicts := Conflicts(records)
	if len(conflicts) != 3 {
		t.Fatalf("expected 3 conflicts, got %d: %+v", len(conflicts), conflicts)
	}
	if conflicts[0].Duplicate || conflicts[0].Second.StartTime != "10:30" {
		t.Fatalf("expected first conflict to be the 10:30 overlap, got %+v", conflicts[0])
	}
	if !conflicts[1].Duplicate {
		t.Fatalf("expected identical ranges to be marked duplicate, got %+v", conflicts[1])
	}
}

func TestConflicts_IgnoresOtherEmployeesDatesAndRawTimes(t *testing.T) {
	t.Parallel()

	records := []worklog.Record{
		record("Anna", "04:01:2025", "9:00", "11:00"),
		record("Sarah", "04:01:2025", "9:00", "11:00"),
		record("Anna", "04:02:2025", "9:00", "11:00"),
		{Employee: "Anna", Date: "04:01:2025", Time: "9-11"},
		record("Anna", "04:01:2025", "11:00", "12:00"),
	}

	if conflicts := Conflicts(records); len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", conflicts)
	}
}

func TestConflicts_OvernightRange(t *testing.T) {
	t.Parallel()

	records := []worklog.Record{
		record("Anna", "04:01:2025", "22:00", "1:00"),
		record("Anna", "04:01:2025", "23:30", "23:45"),
	}
	if conflicts := Conflicts(records); len(conflicts) != 1 {
		t.Fatalf("expected overnight overlap, got %+v", conflicts)
	}
}
