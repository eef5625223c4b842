package output

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"hourlog/internal/normalize"
	"hourlog/internal/timeutil"
	"hourlog/worklog"
)

// DailySummary aggregates one employee's records on one date.
type DailySummary struct {
	Employee    string
	Date        string
	StartTime   string
	EndTime     string
	WorkedHours float64
	BreakHours  float64
	RecordCount int
	// UnparsedCount counts records whose time range was not canonical; they
	// contribute no hours.
	UnparsedCount int
}

var summaryHeaders = []string{"Employee", "Date", "StartTime", "EndTime", "WorkedHours", "BreakHours", "RecordCount", "UnparsedCount"}

type interval struct {
	start int
	end   int
}

type summaryKey struct {
	employee string
	date     string
}

func BuildDailySummaries(records []worklog.Record) []DailySummary {
	if len(records) == 0 {
		return []DailySummary{}
	}

	byDay := make(map[summaryKey][]worklog.Record)
	for _, record := range records {
		key := summaryKey{employee: record.Employee, date: record.Date}
		byDay[key] = append(byDay[key], record)
	}

	keys := make([]summaryKey, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].employee != keys[j].employee {
			return keys[i].employee < keys[j].employee
		}
		return dateLess(keys[i].date, keys[j].date)
	})

	summaries := make([]DailySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, summarizeDay(key, byDay[key]))
	}

	return summaries
}

// dateLess orders canonical dates chronologically and anything else after
// them in lexical order.
func dateLess(a, b string) bool {
	at, aErr := time.Parse(normalize.CanonicalDateLayout, a)
	bt, bErr := time.Parse(normalize.CanonicalDateLayout, b)
	switch {
	case aErr == nil && bErr == nil:
		return at.Before(bt)
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

func summarizeDay(key summaryKey, records []worklog.Record) DailySummary {
	summary := DailySummary{Employee: key.employee, Date: key.date, RecordCount: len(records)}

	intervals := make([]interval, 0, len(records))
	worked := 0
	for _, record := range records {
		span, ok := recordInterval(record)
		if !ok {
			summary.UnparsedCount++
			continue
		}
		worked += span.end - span.start
		intervals = append(intervals, span)
	}
	if len(intervals) == 0 {
		return summary
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].start == intervals[j].start {
			return intervals[i].end < intervals[j].end
		}
		return intervals[i].start < intervals[j].start
	})

	start := intervals[0].start
	end := intervals[0].end
	for _, span := range intervals[1:] {
		if span.end > end {
			end = span.end
		}
	}

	breakMinutes := (end - start) - mergedCoverage(intervals)
	if breakMinutes < 0 {
		breakMinutes = 0
	}

	summary.StartTime = clock(start)
	summary.EndTime = clock(end)
	summary.WorkedHours = roundHours(float64(worked) / 60)
	summary.BreakHours = roundHours(float64(breakMinutes) / 60)
	return summary
}

// recordInterval places a record on the minute axis of its day. Ranges
// crossing midnight extend past 24:00.
func recordInterval(record worklog.Record) (interval, bool) {
	start, end := record.StartTime, record.EndTime
	if start == "" || end == "" {
		var ok bool
		if start, end, ok = worklog.SplitTimeRange(record.Time); !ok {
			return interval{}, false
		}
	}
	startMinutes, err := timeutil.MinutesFromClock(start)
	if err != nil {
		return interval{}, false
	}
	length, err := timeutil.RangeMinutes(start, end)
	if err != nil {
		return interval{}, false
	}
	return interval{start: startMinutes, end: startMinutes + length}, true
}

// mergedCoverage expects intervals sorted by start.
func mergedCoverage(intervals []interval) int {
	currentStart := intervals[0].start
	currentEnd := intervals[0].end
	covered := 0

	for _, candidate := range intervals[1:] {
		if candidate.start > currentEnd {
			covered += currentEnd - currentStart
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}
		if candidate.end > currentEnd {
			currentEnd = candidate.end
		}
	}

	return covered + currentEnd - currentStart
}

func clock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

func summaryRow(summary DailySummary) []string {
	return []string{
		summary.Employee,
		summary.Date,
		summary.StartTime,
		summary.EndTime,
		fmt.Sprintf("%.2f", summary.WorkedHours),
		fmt.Sprintf("%.2f", summary.BreakHours),
		strconv.Itoa(summary.RecordCount),
		strconv.Itoa(summary.UnparsedCount),
	}
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, summaryRow(summary))
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, rows)
	case "excel", "xlsx":
		return writeExcelRows(path, "Daily", summaryHeaders, rows)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}
