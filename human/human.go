// Package human formats values for log lines and terminal output.
package human

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"lntools/timeutil"
)

// Path renders a path relative to the working directory when it lives
// under it, otherwise as a cleaned absolute path.
func Path(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return abs, nil
	}
	if rel, err := filepath.Rel(cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel, nil
	}
	return abs, nil
}

// Unit formats a quantity with a pluralized unit name.
//
//	Unit(1, "apple", 0)   -> "1 apple"
//	Unit(3.141, "meter", 2) -> "3.14 meters"
func Unit(n float64, name string, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	formatted := fmt.Sprintf("%.*f", decimals, n)
	plural := ""
	if n != 1 && !strings.HasSuffix(name, "s") {
		plural = "s"
	}
	return fmt.Sprintf("%s %s%s", formatted, name, plural)
}

// Duration renders a second count in progressively coarser tiers:
// fractional seconds, minutes+seconds, then hours+minutes.
func Duration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	switch {
	case d < time.Minute:
		if seconds < 10 {
			return fmt.Sprintf("%.4fs", seconds)
		}
		return fmt.Sprintf("%.1fs", seconds)
	case d < time.Hour:
		mins := int(seconds) / 60
		secs := int(seconds) % 60
		return fmt.Sprintf("%s %d s", Unit(float64(mins), "min", 0), secs)
	default:
		hours := int(seconds) / 3600
		mins := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%s %s", Unit(float64(hours), "hours", 0), Unit(float64(mins), "min", 0))
	}
}

// List previews a slice, eliding everything past the first n items.
//
//	List([]string{"a"}, 3)            -> "[a] (only 1)"
//	List([]string{"a","b","c","d"},3) -> "[a b c] (& 1 other)"
func List[T any](items []T, n int) string {
	length := len(items)
	if length == 1 {
		return fmt.Sprintf("%v (only 1)", items)
	}
	if length <= n {
		return fmt.Sprintf("%v", items)
	}
	return fmt.Sprintf("%v (& %s)", items[:n], Unit(float64(length-n), "other", 0))
}

// Ranges summarizes a date list as "begin ~ end (N days, span)", where
// span is a calendar year/month/day breakdown such as "8M18D".
func Ranges(days []time.Time, sortFirst bool) string {
	length := len(days)
	if length == 0 {
		return "No days given"
	}
	if length == 1 {
		return fmt.Sprintf("%s (only 1 day)", days[0].Format(timeutil.Shortcuts[timeutil.Standard]))
	}
	if sortFirst {
		days = append([]time.Time(nil), days...)
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}
	begin, end := days[0], days[length-1]
	return fmt.Sprintf("%s ~ %s (%d days, %s)",
		begin.Format(timeutil.Shortcuts[timeutil.Standard]),
		end.Format(timeutil.Shortcuts[timeutil.Standard]),
		length, ymdSpan(begin, end))
}

// ymdSpan renders the calendar span between two dates, most significant
// component first, with the day count inclusive of the end date.
func ymdSpan(begin, end time.Time) string {
	years := end.Year() - begin.Year()
	months := int(end.Month()) - int(begin.Month())
	daysPart := end.Day() - begin.Day()
	if daysPart < 0 {
		months--
		prevMonthEnd := time.Date(end.Year(), end.Month(), 0, 0, 0, 0, 0, end.Location())
		daysPart += prevMonthEnd.Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	result := fmt.Sprintf("%dD", daysPart+1)
	if months != 0 {
		result = fmt.Sprintf("%dM%s", months, result)
	}
	if years != 0 {
		result = fmt.Sprintf("%dY%s", years, result)
	}
	return result
}

// Datetime formats a date-like value with a shortcut name or Go layout.
func Datetime(v any, method string) (string, error) {
	return timeutil.Format(v, method)
}

// Bytes renders a byte count in IEC units ("12 MiB").
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Comma renders an integer with thousands separators.
func Comma(n int64) string {
	return humanize.Comma(n)
}
