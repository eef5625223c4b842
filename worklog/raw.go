package worklog

import (
	"strings"
)

// Canonical record keys.
const (
	KeyEmployee    = "employee"
	KeyDate        = "date"
	KeyTime        = "time"
	KeyStartTime   = "start_time"
	KeyEndTime     = "end_time"
	KeyDescription = "description"
	KeySubtask     = "subtask"
	KeyStatus      = "status"
)

// RawRecord is one record as emitted by a strategy, keyed by whatever names
// that strategy uses.
type RawRecord struct {
	Index  int
	Values map[string]string
}

// NewRawRecord copies values into a RawRecord with normalized keys.
func NewRawRecord(index int, values map[string]string) RawRecord {
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		normalized[NormalizeKey(key)] = value
	}
	return RawRecord{Index: index, Values: normalized}
}

// Get returns the first non-empty value among keys.
func (r RawRecord) Get(keys ...string) string {
	for _, key := range keys {
		if value, ok := r.Values[NormalizeKey(key)]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// NormalizeKey folds case and drops separators so "Start Time", "start_time"
// and "startTime" address the same value.
func NormalizeKey(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
