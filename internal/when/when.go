// Package when parses natural-language schedule expressions into calendar dates.
package when

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no clock and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// weekdayNames maps names and common abbreviations to Go weekdays.
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"mon":       time.Monday,
	"mo":        time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tu":        time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"we":        time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"th":        time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"fr":        time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
	"sa":        time.Saturday,
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"su":        time.Sunday,
}

// Today returns the current date in local time.
func Today() Date {
	return FromTime(time.Now())
}

// FromTime truncates a time to its calendar day.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// NewDate validates a year/month/day triple.
func NewDate(year int, month time.Month, day int) (Date, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return FromTime(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO string date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse interprets a schedule expression relative to today. It returns the
// resolved date (nil when the input has no readable date) and a repeat
// interval in days (0 for one-shot dates).
//
// Accepted forms: "today", "tomorrow", "in N days", "daily", "every day",
// "every N days", "every friday", bare weekday names and abbreviations,
// ISO "YYYY-MM-DD", "M-D" in the current year, and a bare day-of-month
// number in the current month.
func Parse(raw string, today Date) (*Date, int) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, 0
	}
	lowered := strings.ToLower(value)

	switch lowered {
	case "daily", "everyday", "every day":
		d := today
		return &d, 1
	case "today":
		d := today
		return &d, 0
	case "tomorrow":
		d := today.AddDays(1)
		return &d, 0
	}

	if rest, ok := strings.CutPrefix(lowered, "in "); ok {
		rest = strings.TrimSpace(rest)
		if trimmed, ok := strings.CutSuffix(rest, " days"); ok {
			rest = strings.TrimSpace(trimmed)
		} else if trimmed, ok := strings.CutSuffix(rest, " day"); ok {
			rest = strings.TrimSpace(trimmed)
		}
		offset, err := strconv.Atoi(rest)
		if err != nil || offset < 0 {
			return nil, 0
		}
		d := today.AddDays(offset)
		return &d, 0
	}

	if rest, ok := strings.CutPrefix(lowered, "every "); ok {
		rest = strings.TrimSpace(rest)
		switch rest {
		case "day", "daily", "day(s)":
			d := today
			return &d, 1
		}
		if weekday, ok := weekdayNames[rest]; ok {
			d := nextWeekday(today, weekday)
			return &d, 7
		}
		if strings.HasSuffix(rest, " days") || strings.HasSuffix(rest, " day") {
			fields := strings.Fields(rest)
			interval, err := strconv.Atoi(fields[0])
			if err == nil && interval > 0 {
				d := today.AddDays(interval)
				return &d, interval
			}
		}
		return nil, 0
	}

	if weekday, ok := weekdayNames[lowered]; ok {
		d := nextWeekday(today, weekday)
		return &d, 0
	}

	if parsed, err := ParseDate(value); err == nil {
		return &parsed, 0
	}

	if parts := strings.Split(value, "-"); len(parts) == 2 && allDigits(parts[0]) && allDigits(parts[1]) {
		month, _ := strconv.Atoi(parts[0])
		day, _ := strconv.Atoi(parts[1])
		if d, ok := NewDate(today.Year, time.Month(month), day); ok {
			return &d, 0
		}
		return nil, 0
	}

	if allDigits(value) {
		day, _ := strconv.Atoi(value)
		if d, ok := NewDate(today.Year, today.Month, day); ok {
			return &d, 0
		}
		return nil, 0
	}

	return nil, 0
}

// nextWeekday returns the first matching weekday strictly after current.
func nextWeekday(current Date, target time.Weekday) Date {
	delta := (int(target) - int(current.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return current.AddDays(delta)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
