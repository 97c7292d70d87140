package civil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// ParseDate parses an ISO-8601 local date such as 2024-03-10. Years
// outside 0000-9999 carry an explicit sign, as in +10000-01-01.
func ParseDate(text string) (LocalDate, error) {
	s := strings.TrimSpace(text)
	neg := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) < 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return LocalDate{}, parseError("date", text)
	}
	year, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return LocalDate{}, parseError("date", text)
	}
	if neg {
		year = -year
	}
	month, err1 := strconv.Atoi(parts[1])
	day, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return LocalDate{}, parseError("date", text)
	}
	return OfDate(year, month, day)
}

// ParseTime parses HH:MM, HH:MM:SS or HH:MM:SS.fraction with up to nine
// fractional digits.
func ParseTime(text string) (LocalTime, error) {
	s := strings.TrimSpace(text)
	fraction := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s, fraction = s[:i], s[i+1:]
		if fraction == "" || len(fraction) > 9 {
			return LocalTime{}, parseError("time", text)
		}
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || (fraction != "" && len(parts) != 3) {
		return LocalTime{}, parseError("time", text)
	}
	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return LocalTime{}, parseError("time", text)
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return LocalTime{}, parseError("time", text)
		}
		values[i] = v
	}
	nano := 0
	if fraction != "" {
		padded := fraction + strings.Repeat("0", 9-len(fraction))
		n, err := strconv.Atoi(padded)
		if err != nil || n < 0 {
			return LocalTime{}, parseError("time", text)
		}
		nano = n
	}
	return OfTime(values[0], values[1], values[2], nano)
}

// ParseDateTime parses a date and a time separated by 'T', such as
// 2024-03-10T02:30.
func ParseDateTime(text string) (LocalDateTime, error) {
	s := strings.TrimSpace(text)
	datePart, timePart, ok := strings.Cut(s, "T")
	if !ok {
		return LocalDateTime{}, parseError("date-time", text)
	}
	date, err := ParseDate(datePart)
	if err != nil {
		return LocalDateTime{}, err
	}
	t, err := ParseTime(timePart)
	if err != nil {
		return LocalDateTime{}, err
	}
	return date.AtTime(t), nil
}

// ParseInstant parses a UTC date-time with a trailing 'Z', such as
// 2024-03-10T07:00Z, or a count of seconds since the epoch.
func ParseInstant(text string) (Instant, error) {
	s := strings.TrimSpace(text)
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return InstantOfEpochSecond(seconds, 0)
	}
	local, ok := strings.CutSuffix(s, "Z")
	if !ok {
		local, ok = strings.CutSuffix(s, "z")
	}
	if !ok {
		return Instant{}, parseError("instant", text)
	}
	dt, err := ParseDateTime(local)
	if err != nil {
		return Instant{}, err
	}
	return InstantOfEpochSecond(dt.ToEpochSecond(0), int64(dt.Time().Nano()))
}

func parseError(kind, text string) error {
	return fmt.Errorf("%w: cannot parse %q as a %s", temporal.ErrInvalidArgument, text, kind)
}
