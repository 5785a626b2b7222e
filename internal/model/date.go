package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for deadlines: a calendar day, no time zone.
// This matches what an HTML <input type="date"> submits.
const dateLayout = "2006-01-02"

// Date is a day-granularity timestamp used for task deadlines.
//
// WHY A CUSTOM TYPE?
// encoding/json only understands RFC 3339 for time.Time ("2006-01-02T15:04:05Z").
// Clients submit bare dates like "2026-09-01", which time.Time refuses to parse.
// Wrapping time.Time lets us accept both forms on input and always emit the
// bare-date form on output.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON emits the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts either "2006-01-02" or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Fall back to RFC 3339 so round-tripped timestamps still parse.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("model: invalid date %q (want YYYY-MM-DD)", s)
		}
	}

	d.Time = t
	return nil
}

// String implements fmt.Stringer for log output.
func (d Date) String() string {
	return d.Format(dateLayout)
}
