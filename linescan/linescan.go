// Package linescan extracts time-log records from free text without any
// remote service. It recognizes employee headers, date headers and time-range
// lines and carries the current employee and date from line to line.
package linescan

import (
	"fmt"
	"regexp"
	"strings"

	"hourlog/internal/normalize"
	"hourlog/worklog"
)

// SubtaskFinder resolves a description to a taxonomy label.
type SubtaskFinder interface {
	FindSubtask(description string) (string, bool)
}

// Result holds the extracted records and the non-fatal problems met on the way.
type Result struct {
	Records []worklog.Record
	Errors  []string
	// ShortForm is set when the whole input matched the three-line form.
	ShortForm bool
}

var glyphReplacer = strings.NewReplacer(
	"→", "->",
	"⇒", "->",
	"➔", "->",
	"⟶", "->",
	"–", "-",
	"—", "-",
	"‒", "-",
	"−", "-",
	"\r\n", "\n",
	"\r", "\n",
)

const dateLineExpr = `(\d{1,2} \pL+,? \d{4})` +
	`|(\d{1,2}/\d{1,2}/\d{2,4})` +
	`|((?:Montag|Dienstag|Mittwoch|Donnerstag|Freitag), \d{1,2}\. \pL+ \d{4})` +
	`|(\d{4}-\d{1,2}-\d{1,2})` +
	`|(\d{1,2}\.\d{1,2}\.\d{2,4})`

var (
	employeePattern    = regexp.MustCompile(`(?i)^employee \d+:\s*(.+)$`)
	dateLinePattern    = regexp.MustCompile(`^(?:` + dateLineExpr + `)\s*$`)
	strictRangePattern = regexp.MustCompile(`^\s*(\d{1,2}:\d{2}|\d{1,2})\s*-\s*(\d{1,2}:\d{2}|\d{1,2})\s*(?:->|-)?\s*(.+)$`)
	looseRangePattern  = regexp.MustCompile(`^\s*(\d{1,2}:?\d{0,2})\s*-\s*(\d{1,2}:?\d{0,2})\s+(.+)$`)
)

// NormalizeGlyphs rewrites typographic dashes and arrows to "-" and "->" and
// unifies line endings.
func NormalizeGlyphs(text string) string {
	return glyphReplacer.Replace(text)
}

// Scanner is the deterministic extractor. The zero value has no taxonomy and
// marks every scanned record as ambiguous.
type Scanner struct {
	Taxonomy SubtaskFinder
}

func New(taxonomy SubtaskFinder) *Scanner {
	return &Scanner{Taxonomy: taxonomy}
}

// Scan tries the three-line short form first and falls back to the line
// scanner when the input does not match it as a whole.
func (s *Scanner) Scan(text string) Result {
	text = NormalizeGlyphs(text)
	if record, ok := shortForm(text); ok {
		return Result{Records: []worklog.Record{record}, ShortForm: true}
	}
	return s.scanLines(text)
}

// shortForm matches "name / date line / time-range line". Values are kept as
// written; no date or time normalization and no taxonomy lookup. A name line
// that is an "Employee N:" header belongs to the line scanner.
func shortForm(text string) (worklog.Record, bool) {
	lines := nonEmptyLines(text)
	if len(lines) != 3 {
		return worklog.Record{}, false
	}

	name := lines[0]
	if employeePattern.MatchString(name) {
		return worklog.Record{}, false
	}
	if name == "" || dateLinePattern.MatchString(name) || matchRange(name) != nil {
		return worklog.Record{}, false
	}

	date, ok := matchDate(lines[1])
	if !ok {
		return worklog.Record{}, false
	}

	match := matchRange(lines[2])
	if match == nil {
		return worklog.Record{}, false
	}
	start := strings.TrimSpace(match[1])
	end := strings.TrimSpace(match[2])

	return worklog.Record{
		Employee:    name,
		Date:        date,
		Time:        worklog.TimeRange(start, end),
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(match[3]),
		Status:      worklog.StatusUnverified,
	}, true
}

type scanState struct {
	employee string
	date     string
}

func (st scanState) ready() bool {
	return st.employee != "" && st.date != ""
}

func (s *Scanner) scanLines(text string) Result {
	result := Result{Records: make([]worklog.Record, 0, 16)}
	var state scanState

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if match := employeePattern.FindStringSubmatch(line); match != nil {
			state = scanState{employee: strings.TrimSpace(match[1])}
			continue
		}

		if raw, ok := matchDate(line); ok {
			canonical, err := normalize.Date(raw)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid date '%s': %v", raw, err))
				state.date = ""
				continue
			}
			state.date = canonical
			continue
		}

		match := matchRange(line)
		if match == nil || !state.ready() {
			continue
		}

		startRaw := strings.TrimSpace(match[1])
		endRaw := strings.TrimSpace(match[2])
		start, err := normalize.Time(startRaw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid start time '%s': %v", startRaw, err))
			start = startRaw
		}
		end, err := normalize.Time(endRaw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid end time '%s': %v", endRaw, err))
			end = endRaw
		}

		description := strings.TrimSpace(match[3])
		result.Records = append(result.Records, worklog.Record{
			Employee:    state.employee,
			Date:        state.date,
			Time:        worklog.TimeRange(start, end),
			StartTime:   start,
			EndTime:     end,
			Description: description,
			Subtask:     s.subtaskFor(description),
		})
	}

	return result
}

func (s *Scanner) subtaskFor(description string) string {
	if s.Taxonomy != nil {
		if name, ok := s.Taxonomy.FindSubtask(description); ok {
			return name
		}
	}
	return worklog.AmbiguousSubtask
}

func matchDate(line string) (string, bool) {
	match := dateLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return "", false
	}
	for _, group := range match[1:] {
		if group != "" {
			return group, true
		}
	}
	return "", false
}

func matchRange(line string) []string {
	if match := strictRangePattern.FindStringSubmatch(line); match != nil {
		return match
	}
	return looseRangePattern.FindStringSubmatch(line)
}

func nonEmptyLines(text string) []string {
	lines := make([]string, 0, 4)
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
