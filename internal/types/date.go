// Package types implements special types for Warped Finance.
package types

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day. The time of day is always midnight UTC.
type Date time.Time

// ErrUnparseableDate is returned when no known layout matches a date string.
var ErrUnparseableDate = errors.New("date could not be parsed")

// layouts are tried in order by ParseDate. The exports we ingest use US
// month-first dates, the API uses ISO dates.
var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// NewDate returns a new Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the Date on which a time occurs in that time's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both "2006-01-02" and RFC3339 timestamps are accepted, the time of day is dropped.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	date, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = date
	return nil
}

// Scan writes the value from the database.
func (d *Date) Scan(value interface{}) (err error) {
	if s, ok := value.(string); ok {
		date, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = date
		return nil
	}

	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DateOf(nullTime.Time.In(time.UTC))
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Date) Value() (driver.Value, error) {
	year, month, day := time.Time(d).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm the type.
func (Date) GormDataType() string {
	return "date"
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDays adds the number of days to the date.
func (d Date) AddDays(days int) Date {
	return Date(time.Time(d).AddDate(0, 0, days))
}

// Before reports whether the date d is before e.
func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether the date d is after e.
func (d Date) After(e Date) bool {
	return time.Time(d).After(time.Time(e))
}

// Equal reports whether d and e are the same day.
func (d Date) Equal(e Date) bool {
	return time.Time(d).Equal(time.Time(e))
}
