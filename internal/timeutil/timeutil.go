package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesFromClock converts a canonical H:MM value to minutes after midnight.
func MinutesFromClock(value string) (int, error) {
	hourRaw, minuteRaw, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("clock value %q is not in H:MM form", value)
	}
	hour, err := strconv.Atoi(hourRaw)
	if err != nil {
		return 0, fmt.Errorf("parse hour of %q: %w", value, err)
	}
	minute, err := strconv.Atoi(minuteRaw)
	if err != nil {
		return 0, fmt.Errorf("parse minute of %q: %w", value, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hour*60 + minute, nil
}

// RangeMinutes returns the length of start-end in minutes. Ranges ending
// before they start are taken to cross midnight.
func RangeMinutes(start, end string) (int, error) {
	startMinutes, err := MinutesFromClock(start)
	if err != nil {
		return 0, err
	}
	endMinutes, err := MinutesFromClock(end)
	if err != nil {
		return 0, err
	}
	if endMinutes < startMinutes {
		endMinutes += 24 * 60
	}
	return endMinutes - startMinutes, nil
}
