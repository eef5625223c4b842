package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormatError reports a date string none of the supported layouts accept.
type DateFormatError struct {
	Input string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date format: %q", e.Input)
}

// Layouts are tried in order; the first that parses a valid calendar day wins.
var dateLayouts = []string{
	"2 January, 2006",
	"2 Jan, 2006",
	"2/1/2006",
	"2/1/06",
	"2006-1-2",
	"2.1.2006",
	"2.1.06",
	"2 January 2006",
	"2 Jan 2006",
}

var weekdayDatePattern = regexp.MustCompile(`^(?:Montag|Dienstag|Mittwoch|Donnerstag|Freitag), (\d{1,2})\. (\pL+) (\d{4})$`)

var monthsByName = map[string]time.Month{
	"januar": time.January, "jan": time.January, "january": time.January,
	"februar": time.February, "feb": time.February, "february": time.February,
	"märz": time.March, "maerz": time.March, "mär": time.March, "mar": time.March, "march": time.March,
	"april": time.April, "apr": time.April,
	"mai": time.May, "may": time.May,
	"juni": time.June, "jun": time.June, "june": time.June,
	"juli": time.July, "jul": time.July, "july": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October, "october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"dezember": time.December, "dez": time.December, "december": time.December, "dec": time.December,
}

// CanonicalDateLayout renders dates as MM:DD:YYYY.
const CanonicalDateLayout = "01:02:2006"

// Date returns value in canonical MM:DD:YYYY form.
func Date(value string) (string, error) {
	value = strings.TrimSpace(value)

	if match := weekdayDatePattern.FindStringSubmatch(value); match != nil {
		return weekdayDate(value, match[1], match[2], match[3])
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		// time.Parse already rejects out-of-range days; keep the check explicit
		// so the guarantee does not depend on that.
		if !validDay(parsed.Year(), parsed.Month(), parsed.Day()) {
			continue
		}
		return parsed.Format(CanonicalDateLayout), nil
	}

	return "", &DateFormatError{Input: value}
}

func weekdayDate(input, dayRaw, monthRaw, yearRaw string) (string, error) {
	month, ok := monthsByName[strings.ToLower(monthRaw)]
	if !ok {
		return "", &DateFormatError{Input: input}
	}
	day, err := strconv.Atoi(dayRaw)
	if err != nil {
		return "", &DateFormatError{Input: input}
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return "", &DateFormatError{Input: input}
	}
	if !validDay(year, month, day) {
		return "", &DateFormatError{Input: input}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(CanonicalDateLayout), nil
}

func validDay(year int, month time.Month, day int) bool {
	return day >= 1 && day <= daysIn(year, month)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
