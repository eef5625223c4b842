package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeFormatError reports a malformed or out-of-range clock value.
type TimeFormatError struct {
	Input  string
	Reason string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

var (
	bareHourPattern   = regexp.MustCompile(`^\d{1,2}$`)
	hourMinutePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Time returns value in canonical H:MM form. A bare hour means minute zero.
// 24:00 is accepted as end-of-day; any other 24:xx is rejected.
func Time(value string) (string, error) {
	value = strings.TrimSpace(value)

	var hourRaw, minuteRaw string
	switch {
	case bareHourPattern.MatchString(value):
		hourRaw, minuteRaw = value, "0"
	default:
		match := hourMinutePattern.FindStringSubmatch(value)
		if match == nil {
			return "", &TimeFormatError{Input: value, Reason: "expected H, H:MM or HH:MM"}
		}
		hourRaw, minuteRaw = match[1], match[2]
	}

	hour, _ := strconv.Atoi(hourRaw)
	minute, _ := strconv.Atoi(minuteRaw)

	if hour < 0 || hour > 24 {
		return "", &TimeFormatError{Input: value, Reason: fmt.Sprintf("hour %d out of range", hour)}
	}
	if minute < 0 || minute > 59 {
		return "", &TimeFormatError{Input: value, Reason: fmt.Sprintf("minute %d out of range", minute)}
	}
	if hour == 24 && minute != 0 {
		return "", &TimeFormatError{Input: value, Reason: "only 24:00 is allowed at hour 24"}
	}

	return fmt.Sprintf("%d:%02d", hour, minute), nil
}
