package worklog

import (
	"strings"

	"hourlog/internal/timeutil"
)

const (
	// AmbiguousSubtask marks records whose description matched no taxonomy node.
	AmbiguousSubtask = "Ambiguous (requires verification)"
	// StatusUnverified is set on records produced by the short-form path.
	StatusUnverified = "Unverified"
)

// Record is the normalized time-log record returned to callers regardless of
// which extraction strategy produced it.
type Record struct {
	Employee    string `json:"employee"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Description string `json:"description"`
	Subtask     string `json:"subtask"`
	Status      string `json:"status,omitempty"`
}

// TimeRange joins start and end into the canonical "start-end" form.
func TimeRange(start, end string) string {
	return strings.TrimSpace(start) + "-" + strings.TrimSpace(end)
}

// SplitTimeRange is the inverse of TimeRange. Surrounding blanks around the
// separator are tolerated so raw "9:00 - 12:00" values split as well.
func SplitTimeRange(value string) (string, string, bool) {
	start, end, ok := strings.Cut(value, "-")
	if !ok {
		return "", "", false
	}
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

// WithSubtask returns a copy of r carrying the given subtask.
func (r Record) WithSubtask(subtask string) Record {
	r.Subtask = subtask
	return r
}

// Raw exposes the record under its canonical keys.
func (r Record) Raw() RawRecord {
	values := map[string]string{
		NormalizeKey(KeyEmployee):    r.Employee,
		NormalizeKey(KeyDate):        r.Date,
		NormalizeKey(KeyTime):        r.Time,
		NormalizeKey(KeyDescription): r.Description,
		NormalizeKey(KeySubtask):     r.Subtask,
	}
	if r.StartTime != "" {
		values[NormalizeKey(KeyStartTime)] = r.StartTime
	}
	if r.EndTime != "" {
		values[NormalizeKey(KeyEndTime)] = r.EndTime
	}
	if r.Status != "" {
		values[NormalizeKey(KeyStatus)] = r.Status
	}
	return RawRecord{Values: values}
}

// Hours returns the length of the record's time range. ok is false when the
// start or end is not a canonical clock value.
func (r Record) Hours() (hours float64, ok bool) {
	start, end := r.StartTime, r.EndTime
	if start == "" || end == "" {
		var split bool
		if start, end, split = SplitTimeRange(r.Time); !split {
			return 0, false
		}
	}
	minutes, err := timeutil.RangeMinutes(start, end)
	if err != nil {
		return 0, false
	}
	return float64(minutes) / 60, true
}
