package civil

import (
	"fmt"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

const (
	daysPerCycle   int64 = 146097 // days in a 400 year cycle
	days0000To1970 int64 = daysPerCycle*5 - (30*365 + 7)
	monthsPerYear  int64 = 12
	maxYear              = temporal.MaxYear
)

// LocalDate is an ISO date without time or offset.
type LocalDate struct {
	year  int32
	month int8
	day   int8
}

// EpochDate is 1970-01-01.
var EpochDate = LocalDate{year: 1970, month: 1, day: 1}

// OfDate returns the date year-month-day, validating every component.
func OfDate(year int64, month, day int) (LocalDate, error) {
	if _, err := temporal.Year.CheckValidValue(year); err != nil {
		return LocalDate{}, err
	}
	if _, err := temporal.MonthOfYear.CheckValidValue(int64(month)); err != nil {
		return LocalDate{}, err
	}
	if _, err := temporal.DayOfMonth.CheckValidValue(int64(day)); err != nil {
		return LocalDate{}, err
	}
	if day > LengthOfMonth(year, month) {
		return LocalDate{}, fmt.Errorf("%w: invalid date %s %d of year %d",
			temporal.ErrDateTimeRange, monthName(month), day, year)
	}
	return LocalDate{year: int32(year), month: int8(month), day: int8(day)}, nil
}

// MustDate is OfDate for literals; it panics on invalid input.
func MustDate(year int64, month, day int) LocalDate {
	d, err := OfDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// OfYearDay returns the dayOfYear-th day of year.
func OfYearDay(year int64, dayOfYear int) (LocalDate, error) {
	if _, err := temporal.Year.CheckValidValue(year); err != nil {
		return LocalDate{}, err
	}
	if _, err := temporal.DayOfYear.CheckValidValue(int64(dayOfYear)); err != nil {
		return LocalDate{}, err
	}
	if dayOfYear > LengthOfYear(year) {
		return LocalDate{}, fmt.Errorf("%w: invalid day of year %d for year %d",
			temporal.ErrDateTimeRange, dayOfYear, year)
	}
	first, _ := OfDate(year, 1, 1)
	return first.PlusDays(int64(dayOfYear - 1))
}

// OfEpochDay returns the date epochDay days after 1970-01-01.
func OfEpochDay(epochDay int64) (LocalDate, error) {
	if _, err := temporal.EpochDay.CheckValidValue(epochDay); err != nil {
		return LocalDate{}, err
	}
	zeroDay := epochDay + days0000To1970
	// Shift to a March-based year so the leap day falls at the end.
	zeroDay -= 60
	var adjust int64
	if zeroDay < 0 {
		adjustCycles := (zeroDay+1)/daysPerCycle - 1
		adjust = adjustCycles * 400
		zeroDay += -adjustCycles * daysPerCycle
	}
	yearEst := (400*zeroDay + 591) / daysPerCycle
	doyEst := zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	if doyEst < 0 {
		yearEst--
		doyEst = zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	}
	yearEst += adjust
	marchDoy0 := doyEst
	marchMonth0 := (marchDoy0*5 + 2) / 153
	month := (marchMonth0+2)%12 + 1
	dom := marchDoy0 - (marchMonth0*306+5)/10 + 1
	yearEst += marchMonth0 / 10
	return OfDate(yearEst, int(month), int(dom))
}

// IsLeapYear applies the proleptic Gregorian leap rule.
func IsLeapYear(year int64) bool {
	return year&3 == 0 && (year%100 != 0 || year%400 == 0)
}

// LengthOfMonth returns the number of days in month of year.
func LengthOfMonth(year int64, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// LengthOfYear returns 365 or 366.
func LengthOfYear(year int64) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// firstDayOfYear returns the day-of-year of the first day of month.
func firstDayOfYear(month int, leap bool) int {
	doy := 1
	for m := 1; m < month; m++ {
		switch m {
		case 2:
			doy += 28
			if leap {
				doy++
			}
		case 4, 6, 9, 11:
			doy += 30
		default:
			doy += 31
		}
	}
	return doy
}

func monthName(month int) string {
	names := [...]string{"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	if month < 1 || month > 12 {
		return fmt.Sprintf("Month(%d)", month)
	}
	return names[month]
}

// Year returns the proleptic year.
func (d LocalDate) Year() int64 { return int64(d.year) }

// Month returns the month, 1 to 12.
func (d LocalDate) Month() int { return int(d.month) }

// Day returns the day of month.
func (d LocalDate) Day() int { return int(d.day) }

// IsLeapYear reports whether the date's year is a leap year.
func (d LocalDate) IsLeapYear() bool { return IsLeapYear(d.Year()) }

// LengthOfMonth returns the length of the date's month.
func (d LocalDate) LengthOfMonth() int { return LengthOfMonth(d.Year(), d.Month()) }

// LengthOfYear returns the length of the date's year.
func (d LocalDate) LengthOfYear() int { return LengthOfYear(d.Year()) }

// DayOfYear returns the day of year, 1 to 366.
func (d LocalDate) DayOfYear() int {
	return firstDayOfYear(d.Month(), d.IsLeapYear()) + d.Day() - 1
}

// DayOfWeek returns the ISO weekday.
func (d LocalDate) DayOfWeek() Weekday {
	return Weekday(temporal.FloorMod(d.ToEpochDay()+3, 7) + 1)
}

// ToEpochDay counts days since 1970-01-01.
func (d LocalDate) ToEpochDay() int64 {
	y := d.Year()
	m := int64(d.month)
	total := 365 * y
	if y >= 0 {
		total += (y+3)/4 - (y+99)/100 + (y+399)/400
	} else {
		total -= y/-4 - y/-100 + y/-400
	}
	total += (367*m - 362) / 12
	total += int64(d.day) - 1
	if m > 2 {
		total--
		if !d.IsLeapYear() {
			total--
		}
	}
	return total - days0000To1970
}

func (d LocalDate) prolepticMonth() int64 {
	return d.Year()*monthsPerYear + int64(d.month) - 1
}

// PlusDays returns the date days later.
func (d LocalDate) PlusDays(days int64) (LocalDate, error) {
	if days == 0 {
		return d, nil
	}
	epochDay, err := temporal.AddExact(d.ToEpochDay(), days)
	if err != nil {
		return LocalDate{}, err
	}
	return OfEpochDay(epochDay)
}

// PlusMonths returns the date months later, clamping the day to the end of
// the resulting month.
func (d LocalDate) PlusMonths(months int64) (LocalDate, error) {
	if months == 0 {
		return d, nil
	}
	calc, err := temporal.AddExact(d.prolepticMonth(), months)
	if err != nil {
		return LocalDate{}, err
	}
	year := temporal.FloorDiv(calc, monthsPerYear)
	month := int(temporal.FloorMod(calc, monthsPerYear)) + 1
	return resolvePreviousValid(year, month, d.Day())
}

// PlusYears returns the date years later, moving Feb 29 to Feb 28 when needed.
func (d LocalDate) PlusYears(years int64) (LocalDate, error) {
	if years == 0 {
		return d, nil
	}
	year, err := temporal.AddExact(d.Year(), years)
	if err != nil {
		return LocalDate{}, err
	}
	return resolvePreviousValid(year, d.Month(), d.Day())
}

func resolvePreviousValid(year int64, month, day int) (LocalDate, error) {
	if _, err := temporal.Year.CheckValidValue(year); err != nil {
		return LocalDate{}, err
	}
	if length := LengthOfMonth(year, month); day > length {
		day = length
	}
	return OfDate(year, month, day)
}

// Compare orders dates chronologically.
func (d LocalDate) Compare(other LocalDate) int {
	switch {
	case d.year != other.year:
		return compareInt(int64(d.year), int64(other.year))
	case d.month != other.month:
		return compareInt(int64(d.month), int64(other.month))
	default:
		return compareInt(int64(d.day), int64(other.day))
	}
}

// Before reports whether d is earlier than other.
func (d LocalDate) Before(other LocalDate) bool { return d.Compare(other) < 0 }

// After reports whether d is later than other.
func (d LocalDate) After(other LocalDate) bool { return d.Compare(other) > 0 }

// AtTime combines the date with t.
func (d LocalDate) AtTime(t LocalTime) LocalDateTime {
	return LocalDateTime{date: d, time: t}
}

// AtStartOfDay is the date at midnight.
func (d LocalDate) AtStartOfDay() LocalDateTime {
	return LocalDateTime{date: d, time: Midnight}
}

func (d LocalDate) String() string {
	y := d.Year()
	switch {
	case y > 9999:
		return fmt.Sprintf("+%d-%02d-%02d", y, d.month, d.day)
	case y < 0:
		return fmt.Sprintf("-%04d-%02d-%02d", -y, d.month, d.day)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", y, d.month, d.day)
	}
}

// IsSupported reports whether field is a date field or ProlepticMonth.
func (d LocalDate) IsSupported(field temporal.Field) bool {
	return field.IsDateBased() || field == temporal.ProlepticMonth
}

// IsSupportedUnit reports whether unit is a date unit.
func (d LocalDate) IsSupportedUnit(unit temporal.Unit) bool {
	return unit.IsDateBased()
}

// Range refines the ISO range of field for this date: the month length
// bounds DayOfMonth, the year length bounds DayOfYear.
func (d LocalDate) Range(field temporal.Field) (temporal.ValueRange, error) {
	if !d.IsSupported(field) {
		return temporal.ValueRange{}, temporal.UnsupportedFieldError(field)
	}
	switch field {
	case temporal.DayOfMonth:
		return temporal.ValueRangeOf(1, int64(d.LengthOfMonth()))
	case temporal.DayOfYear:
		return temporal.ValueRangeOf(1, int64(d.LengthOfYear()))
	case temporal.AlignedWeekOfMonth:
		if d.Month() == 2 && !d.IsLeapYear() {
			return temporal.ValueRangeOf(1, 4)
		}
		return temporal.ValueRangeOf(1, 5)
	case temporal.YearOfEra:
		if d.Year() <= 0 {
			return temporal.ValueRangeOf(1, maxYear+1)
		}
		return temporal.ValueRangeOf(1, maxYear)
	}
	return field.Range(), nil
}

// GetLong returns the value of a date field.
func (d LocalDate) GetLong(field temporal.Field) (int64, error) {
	switch field {
	case temporal.DayOfWeek:
		return int64(d.DayOfWeek()), nil
	case temporal.AlignedDayOfWeekInMonth:
		return int64((d.Day()-1)%7 + 1), nil
	case temporal.AlignedDayOfWeekInYear:
		return int64((d.DayOfYear()-1)%7 + 1), nil
	case temporal.DayOfMonth:
		return int64(d.day), nil
	case temporal.DayOfYear:
		return int64(d.DayOfYear()), nil
	case temporal.EpochDay:
		return d.ToEpochDay(), nil
	case temporal.AlignedWeekOfMonth:
		return int64((d.Day()-1)/7 + 1), nil
	case temporal.AlignedWeekOfYear:
		return int64((d.DayOfYear()-1)/7 + 1), nil
	case temporal.MonthOfYear:
		return int64(d.month), nil
	case temporal.ProlepticMonth:
		return d.prolepticMonth(), nil
	case temporal.YearOfEra:
		if d.year >= 1 {
			return d.Year(), nil
		}
		return 1 - d.Year(), nil
	case temporal.Year:
		return d.Year(), nil
	case temporal.Era:
		if d.year >= 1 {
			return 1, nil
		}
		return 0, nil
	}
	return 0, temporal.UnsupportedFieldError(field)
}

// With returns a copy of the date with field set to value.
func (d LocalDate) With(field temporal.Field, value int64) (temporal.Temporal, error) {
	return d.with(field, value)
}

func (d LocalDate) with(field temporal.Field, value int64) (LocalDate, error) {
	if !d.IsSupported(field) {
		return LocalDate{}, temporal.UnsupportedFieldError(field)
	}
	if _, err := field.CheckValidValue(value); err != nil {
		return LocalDate{}, err
	}
	current, _ := d.GetLong(field)
	switch field {
	case temporal.DayOfWeek, temporal.AlignedDayOfWeekInMonth, temporal.AlignedDayOfWeekInYear:
		return d.PlusDays(value - current)
	case temporal.AlignedWeekOfMonth, temporal.AlignedWeekOfYear:
		return d.PlusDays((value - current) * 7)
	case temporal.DayOfMonth:
		return OfDate(d.Year(), d.Month(), int(value))
	case temporal.DayOfYear:
		return OfYearDay(d.Year(), int(value))
	case temporal.EpochDay:
		return OfEpochDay(value)
	case temporal.MonthOfYear:
		return resolvePreviousValid(d.Year(), int(value), d.Day())
	case temporal.ProlepticMonth:
		return d.PlusMonths(value - current)
	case temporal.YearOfEra:
		if d.year >= 1 {
			return resolvePreviousValid(value, d.Month(), d.Day())
		}
		return resolvePreviousValid(1-value, d.Month(), d.Day())
	case temporal.Year:
		return resolvePreviousValid(value, d.Month(), d.Day())
	case temporal.Era:
		if current == value {
			return d, nil
		}
		return resolvePreviousValid(1-d.Year(), d.Month(), d.Day())
	}
	return LocalDate{}, temporal.UnsupportedFieldError(field)
}

// Plus returns the date moved by amount of a date unit.
func (d LocalDate) Plus(amount int64, unit temporal.Unit) (temporal.Temporal, error) {
	return d.plus(amount, unit)
}

func (d LocalDate) plus(amount int64, unit temporal.Unit) (LocalDate, error) {
	years := func(factor int64) (LocalDate, error) {
		n, err := temporal.MultiplyExact(amount, factor)
		if err != nil {
			return LocalDate{}, err
		}
		return d.PlusYears(n)
	}
	switch unit {
	case temporal.Days:
		return d.PlusDays(amount)
	case temporal.Weeks:
		days, err := temporal.MultiplyExact(amount, 7)
		if err != nil {
			return LocalDate{}, err
		}
		return d.PlusDays(days)
	case temporal.Months:
		return d.PlusMonths(amount)
	case temporal.Years:
		return years(1)
	case temporal.Decades:
		return years(10)
	case temporal.Centuries:
		return years(100)
	case temporal.Millennia:
		return years(1000)
	case temporal.Eras:
		era, _ := d.GetLong(temporal.Era)
		target, err := temporal.AddExact(era, amount)
		if err != nil {
			return LocalDate{}, err
		}
		return d.with(temporal.Era, target)
	}
	return LocalDate{}, temporal.UnsupportedUnitError(unit)
}

// Until counts whole date units from d to end, which must be a LocalDate
// or LocalDateTime.
func (d LocalDate) Until(end temporal.Temporal, unit temporal.Unit) (int64, error) {
	var endDate LocalDate
	switch e := end.(type) {
	case LocalDate:
		endDate = e
	case LocalDateTime:
		endDate = e.date
	default:
		return 0, fmt.Errorf("%w: cannot measure from LocalDate to %T", temporal.ErrInvalidArgument, end)
	}
	return d.until(endDate, unit)
}

func (d LocalDate) until(end LocalDate, unit temporal.Unit) (int64, error) {
	days := end.ToEpochDay() - d.ToEpochDay()
	months := func() int64 {
		packed1 := d.prolepticMonth()*32 + int64(d.day)
		packed2 := end.prolepticMonth()*32 + int64(end.day)
		return (packed2 - packed1) / 32
	}
	switch unit {
	case temporal.Days:
		return days, nil
	case temporal.Weeks:
		return days / 7, nil
	case temporal.Months:
		return months(), nil
	case temporal.Years:
		return months() / 12, nil
	case temporal.Decades:
		return months() / 120, nil
	case temporal.Centuries:
		return months() / 1200, nil
	case temporal.Millennia:
		return months() / 12000, nil
	case temporal.Eras:
		startEra, _ := d.GetLong(temporal.Era)
		endEra, _ := end.GetLong(temporal.Era)
		return endEra - startEra, nil
	}
	return 0, temporal.UnsupportedUnitError(unit)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
