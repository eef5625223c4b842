// Package classify finds conflicting records of the same employee and day.
package classify

import (
	"sort"

	"hourlog/internal/timeutil"
	"hourlog/worklog"
)

// Conflict pairs two records of one employee on one date whose time ranges
// intersect. Duplicate is set when both ranges are identical.
type Conflict struct {
	First     worklog.Record
	Second    worklog.Record
	Duplicate bool
}

type span struct {
	index int
	start int
	end   int
}

// Conflicts reports every intersecting pair, ordered by the position of the
// first record in records. Records without canonical times are ignored.
func Conflicts(records []worklog.Record) []Conflict {
	groups := make(map[[2]string][]span)
	order := make([][2]string, 0)
	for i, record := range records {
		start, end, ok := bounds(record)
		if !ok {
			continue
		}
		key := [2]string{record.Employee, record.Date}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], span{index: i, start: start, end: end})
	}

	conflicts := make([]Conflict, 0)
	pairs := make([][2]int, 0)
	for _, key := range order {
		spans := groups[key]
		for a := 0; a < len(spans); a++ {
			for b := a + 1; b < len(spans); b++ {
				if spans[a].start < spans[b].end && spans[b].start < spans[a].end {
					pairs = append(pairs, [2]int{spans[a].index, spans[b].index})
				}
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i][0] == pairs[j][0] {
			return pairs[i][1] < pairs[j][1]
		}
		return pairs[i][0] < pairs[j][0]
	})

	for _, pair := range pairs {
		first, second := records[pair[0]], records[pair[1]]
		conflicts = append(conflicts, Conflict{
			First:     first,
			Second:    second,
			Duplicate: first.Time == second.Time,
		})
	}
	return conflicts
}

func bounds(record worklog.Record) (int, int, bool) {
	start, end := record.StartTime, record.EndTime
	if start == "" || end == "" {
		var ok bool
		if start, end, ok = worklog.SplitTimeRange(record.Time); !ok {
			return 0, 0, false
		}
	}
	startMinutes, err := timeutil.MinutesFromClock(start)
	if err != nil {
		return 0, 0, false
	}
	length, err := timeutil.RangeMinutes(start, end)
	if err != nil || length == 0 {
		return 0, 0, false
	}
	return startMinutes, startMinutes + length, true
}
