// Package civil holds the ISO-8601 value types (local date, local time,
// local date-time, instant) that implement the temporal capability
// interfaces. They carry only the arithmetic the zone rules engine and the
// field model need.
package civil

import (
	"fmt"
	"strings"
)

// Weekday is an ISO day of week, Monday = 1 through Sunday = 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsValid reports whether w is Monday through Sunday.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Plus moves the weekday by days, wrapping around the week.
func (w Weekday) Plus(days int64) Weekday {
	amount := days % 7
	return Weekday((int64(w)+6+amount)%7 + 1)
}

// ParseWeekday accepts a full or three-letter English name, in any case.
func ParseWeekday(name string) (Weekday, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for w := Monday; w <= Sunday; w++ {
		full := strings.ToLower(weekdayNames[w])
		if trimmed == full || (len(trimmed) == 3 && strings.HasPrefix(full, trimmed)) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", name)
}
