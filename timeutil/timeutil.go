// Package timeutil provides date parsing and range helpers shared by the
// rest of lntools. Inputs are accepted in several loose representations
// (ISO strings, compact YYYYMMDD numbers, epoch seconds, time.Time, the
// literal "today") and normalized to time.Time values in local time.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Shortcut names for common layouts. Any method string that is not a
// shortcut is treated as a Go time layout itself.
const (
	Standard = "standard" // 2006/01/02
	Compact  = "compact"  // 20060102
	Wide     = "wide"     // 2006-01-02
	Clock    = "time"     // 15:04:05
	Datetime = "datetime" // 2006/01/02 15:04:05
)

// Shortcuts maps shortcut names to Go time layouts.
var Shortcuts = map[string]string{
	Standard: "2006/01/02",
	Compact:  "20060102",
	Wide:     "2006-01-02",
	Clock:    "15:04:05",
	Datetime: "2006/01/02 15:04:05",
}

// parseLayouts are the string forms Parse understands, tried in order.
var parseLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"20060102",
	time.RFC3339,
}

// Compact numeric dates live in this range; larger integers are epoch
// seconds. 253402300799 is 9999-12-31T23:59:59Z.
const (
	minCompactDate = 19000101
	maxCompactDate = 29991231
)

// InvalidRangeError reports a generated date range whose start is strictly
// after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("start date %s cannot be after end date %s",
		e.Start.Format(Shortcuts[Wide]), e.End.Format(Shortcuts[Wide]))
}

// Layout resolves a format method to a Go time layout. Shortcut names map
// to their layouts; anything else is returned unchanged.
func Layout(method string) string {
	if layout, ok := Shortcuts[strings.ToLower(method)]; ok {
		return layout
	}
	return method
}

// Now returns the current local time.
func Now() time.Time {
	return time.Now()
}

// Parse converts a date-like value to a time.Time.
//
// Supported inputs: time.Time (returned as-is), "today", date strings in
// ISO/slash/compact form, integers and floats (YYYYMMDD when in the
// calendar range, epoch seconds otherwise).
func Parse(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("invalid datetime: nil")
		}
		return *t, nil
	case string:
		return parseString(t)
	case int:
		return parseNumber(float64(t))
	case int64:
		return parseNumber(float64(t))
	case float64:
		return parseNumber(t)
	default:
		return time.Time{}, fmt.Errorf("invalid datetime format: %v (%T)", v, v)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "today") {
		return Truncate(time.Now()), nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return parseNumber(n)
	}
	return time.Time{}, fmt.Errorf("invalid datetime format: %q", s)
}

func parseNumber(n float64) (time.Time, error) {
	if n >= minCompactDate && n <= maxCompactDate {
		t, err := time.ParseInLocation("20060102", strconv.Itoa(int(n)), time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid compact date: %v", n)
		}
		return t, nil
	}
	if n < 0 {
		return time.Time{}, fmt.Errorf("invalid datetime format: %v", n)
	}
	return FromUnix(n), nil
}

// Truncate drops the time-of-day component.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Adjust parses a date-like value and shifts it by n days.
func Adjust(v any, n int) (time.Time, error) {
	t, err := Parse(v)
	if err != nil {
		return time.Time{}, err
	}
	return t.AddDate(0, 0, n), nil
}

// Diff returns the whole-day count from start to end, ignoring the
// time-of-day of both inputs. Days are counted on the calendar, so a
// DST transition inside the span does not shift the result.
func Diff(start, end any) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours() / 24), nil
}

// DayOfWeek returns the ISO weekday of a date (Monday=1 through Sunday=7).
func DayOfWeek(v any) (int, error) {
	t, err := Parse(v)
	if err != nil {
		return 0, err
	}
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd, nil
}

// Range generates the inclusive ascending day sequence between start and
// end. Nil inputs default to 2010-01-01 and today respectively. Returns
// *InvalidRangeError when start is strictly after end.
func Range(start, end any) ([]time.Time, error) {
	if start == nil {
		start = "2010-01-01"
	}
	if end == nil {
		end = "today"
	}
	s, err := Parse(start)
	if err != nil {
		return nil, err
	}
	e, err := Parse(end)
	if err != nil {
		return nil, err
	}
	s, e = Truncate(s), Truncate(e)
	if s.After(e) {
		return nil, &InvalidRangeError{Start: s, End: e}
	}

	days := int(e.Sub(s).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// Format renders a date-like value using a shortcut name or Go layout.
func Format(v any, method string) (string, error) {
	t, err := Parse(v)
	if err != nil {
		return "", err
	}
	return t.Format(Layout(method)), nil
}

// FromUnix converts epoch seconds (fractional allowed) to local time.
func FromUnix(sec float64) time.Time {
	whole := int64(sec)
	frac := int64((sec - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac)
}

// ToUnix converts a date-like value to epoch seconds.
func ToUnix(v any) (float64, error) {
	t, err := Parse(v)
	if err != nil {
		return 0, err
	}
	return float64(t.UnixNano()) / float64(time.Second), nil
}
