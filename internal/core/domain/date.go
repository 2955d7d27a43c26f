package domain

import (
	"fmt"
	"time"
)

const DateLayout = time.DateOnly

// Date is a calendar date without time of day, stored as midnight UTC so
// that day arithmetic never crosses a DST boundary.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(value string) (Date, error) {
	if value == "" {
		return Date{}, nil
	}

	t, err := time.Parse(DateLayout, value)

	if err != nil {
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			return Date{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
		}
	}

	d := DateOf(t)

	// The zero Date encodes as "", which would not read back.
	if d.IsZero() {
		return Date{}, fmt.Errorf("invalid date %q: out of range", value)
	}

	return d, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

// DaysSince returns the number of whole calendar days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t) / (24 * time.Hour))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))

	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
