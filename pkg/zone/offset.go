package zone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// MaxOffsetSeconds bounds an offset to +/-18 hours.
const MaxOffsetSeconds = 18 * 3600

// ZoneOffset is a fixed difference between local clock time and UTC.
// Offsets compare and order by their total seconds.
type ZoneOffset struct {
	totalSeconds int32
}

// UTC is the zero offset.
var UTC = ZoneOffset{}

// OffsetOfTotalSeconds returns the offset of totalSeconds, which must lie in
// [-18h, +18h].
func OffsetOfTotalSeconds(totalSeconds int) (ZoneOffset, error) {
	if totalSeconds < -MaxOffsetSeconds || totalSeconds > MaxOffsetSeconds {
		return ZoneOffset{}, fmt.Errorf("%w: zone offset %d seconds not in range -18:00 to +18:00",
			temporal.ErrDateTimeRange, totalSeconds)
	}
	return ZoneOffset{totalSeconds: int32(totalSeconds)}, nil
}

// OffsetOfHoursMinutesSeconds builds an offset from components that must
// all carry the same sign.
func OffsetOfHoursMinutesSeconds(hours, minutes, seconds int) (ZoneOffset, error) {
	if hours < -18 || hours > 18 {
		return ZoneOffset{}, fmt.Errorf("%w: zone offset hours %d not in range -18 to +18",
			temporal.ErrDateTimeRange, hours)
	}
	if minutes < -59 || minutes > 59 || seconds < -59 || seconds > 59 {
		return ZoneOffset{}, fmt.Errorf("%w: zone offset minutes and seconds must be in range -59 to 59",
			temporal.ErrDateTimeRange)
	}
	signs := []int{sign(hours), sign(minutes), sign(seconds)}
	for _, a := range signs {
		for _, b := range signs {
			if a*b < 0 {
				return ZoneOffset{}, fmt.Errorf("%w: zone offset components must share a sign",
					temporal.ErrInvalidArgument)
			}
		}
	}
	return OffsetOfTotalSeconds(hours*3600 + minutes*60 + seconds)
}

// MustOffset builds an offset of hours and minutes; it panics on bad input.
func MustOffset(hours, minutes int) ZoneOffset {
	o, err := OffsetOfHoursMinutesSeconds(hours, minutes, 0)
	if err != nil {
		panic(err)
	}
	return o
}

// ParseOffset reads an offset id: "Z", "+h", "+hh", "+hh:mm", "+hhmm",
// "+hh:mm:ss" or "+hhmmss", with "-" for negative offsets.
func ParseOffset(id string) (ZoneOffset, error) {
	if id == "Z" || id == "z" {
		return UTC, nil
	}
	if len(id) < 2 || (id[0] != '+' && id[0] != '-') {
		return ZoneOffset{}, fmt.Errorf("%w: invalid zone offset id %q", temporal.ErrInvalidArgument, id)
	}
	negative := id[0] == '-'
	body := id[1:]

	var parts []string
	switch {
	case strings.Contains(body, ":"):
		parts = strings.Split(body, ":")
		if len(parts) > 3 || len(parts[0]) != 2 {
			return ZoneOffset{}, fmt.Errorf("%w: invalid zone offset id %q", temporal.ErrInvalidArgument, id)
		}
	case len(body) <= 2:
		parts = []string{body}
	case len(body) == 4:
		parts = []string{body[:2], body[2:]}
	case len(body) == 6:
		parts = []string{body[:2], body[2:4], body[4:]}
	default:
		return ZoneOffset{}, fmt.Errorf("%w: invalid zone offset id %q", temporal.ErrInvalidArgument, id)
	}

	values := make([]int, 3)
	for i, part := range parts {
		if i > 0 && len(part) != 2 {
			return ZoneOffset{}, fmt.Errorf("%w: invalid zone offset id %q", temporal.ErrInvalidArgument, id)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return ZoneOffset{}, fmt.Errorf("%w: invalid zone offset id %q", temporal.ErrInvalidArgument, id)
		}
		if negative {
			n = -n
		}
		values[i] = n
	}
	return OffsetOfHoursMinutesSeconds(values[0], values[1], values[2])
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// TotalSeconds returns the offset in seconds.
func (o ZoneOffset) TotalSeconds() int {
	return int(o.totalSeconds)
}

// Compare orders offsets by total seconds.
func (o ZoneOffset) Compare(other ZoneOffset) int {
	switch {
	case o.totalSeconds < other.totalSeconds:
		return -1
	case o.totalSeconds > other.totalSeconds:
		return 1
	}
	return 0
}

// ID renders the offset as "Z", "+05:30" or "-04:56:02".
func (o ZoneOffset) ID() string {
	if o.totalSeconds == 0 {
		return "Z"
	}
	total := int(o.totalSeconds)
	signChar := '+'
	if total < 0 {
		signChar = '-'
		total = -total
	}
	hours := total / 3600
	minutes := total / 60 % 60
	seconds := total % 60
	id := fmt.Sprintf("%c%02d:%02d", signChar, hours, minutes)
	if seconds != 0 {
		id += fmt.Sprintf(":%02d", seconds)
	}
	return id
}

func (o ZoneOffset) String() string {
	return o.ID()
}

// IsSupported reports whether field is OffsetSeconds.
func (o ZoneOffset) IsSupported(field temporal.Field) bool {
	return field == temporal.OffsetSeconds
}

// Range returns the static range of OffsetSeconds.
func (o ZoneOffset) Range(field temporal.Field) (temporal.ValueRange, error) {
	return temporal.DefaultRange(o, field)
}

// GetLong returns the total seconds for OffsetSeconds.
func (o ZoneOffset) GetLong(field temporal.Field) (int64, error) {
	if field != temporal.OffsetSeconds {
		return 0, temporal.UnsupportedFieldError(field)
	}
	return int64(o.totalSeconds), nil
}
