// Package datefmt turns date-like values into the Spanish display strings
// used across the terrace calendar.  Every function accepts a time.Time,
// epoch milliseconds (int, int64 or float64) or a string in one of the
// accepted layouts.  Unparseable input never panics: long-form functions
// return Invalid and the compact ones return an empty string.
package datefmt

import (
	"math"
	"strings"
	"time"
	_ "time/tzdata" // Buenos Aires zone must resolve on minimal images

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
)

// Invalid is returned by the long-form formatters for unparseable input.
const Invalid = "Fecha inválida"

// Locale drives month and weekday names.
const Locale = monday.LocaleEsES

// Unpadded fields are accepted: "5-9-2025 10:30:00" and "2025-9-5".
const (
	layoutDMYHMS   = "2-1-2006 15:04:05"
	layoutDateOnly = "2006-1-2"
)

// maxEpochMillis bounds epoch input to +-100,000,000 days around 1970.
const maxEpochMillis = 8.64e15

// Local is the zone used to interpret strings without an offset and epoch
// values.  It mirrors the device's local time.
var Local = time.Local

// Argentina is the zone DateTime renders in.
var Argentina = loadZone("America/Argentina/Buenos_Aires", -3*60*60)

func loadZone(name string, offset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offset)
	}
	return loc
}

// MonthName returns the lower-case Spanish name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monday.Format(time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC), "January", Locale)
}

// WeekdayName returns the lower-case Spanish name of d.
func WeekdayName(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	// 2 January 2000 was a Sunday.
	return monday.Format(time.Date(2000, time.January, 2+int(d), 0, 0, 0, 0, time.UTC), "Monday", Locale)
}

// TryParse interprets v and reports whether it holds a valid date.
func TryParse(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case int:
		return fromMillis(float64(t))
	case int64:
		return fromMillis(float64(t))
	case float64:
		return fromMillis(t)
	case string:
		return parseString(t)
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(Local), true
}

// Parse is TryParse without the flag; invalid input yields the zero time.
func Parse(v any) time.Time {
	t, ok := TryParse(v)
	if !ok {
		return time.Time{}
	}
	return t
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(layoutDMYHMS, s, Local); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(layoutDateOnly, s, Local); err == nil {
		return t, true
	}
	// Bare digit runs are epoch values only when passed as numbers.
	if strings.Trim(s, "0123456789") == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, Local)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// LongDate renders "5 de septiembre de 2025".
func LongDate(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return Invalid
	}
	return longDate(t)
}

// WeekdayLongDate renders "viernes, 5 de septiembre de 2025".
func WeekdayLongDate(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return Invalid
	}
	return monday.Format(t, "Monday, "+longLayout, Locale)
}

const longLayout = "2 de January de 2006"

func longDate(t time.Time) string {
	return monday.Format(t, longLayout, Locale)
}

// ShortDate renders "05/09/2025".
func ShortDate(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return Invalid
	}
	return t.Format("02/01/2006")
}

// DateTime renders date and time in Argentina: "05/09/2025 10:30:00".
func DateTime(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return Invalid
	}
	return t.In(Argentina).Format("02/01/2006 15:04:05")
}

// AxisLabel renders a compact chart label: "05/09 10:30".
func AxisLabel(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return ""
	}
	return t.Format("02/01 15:04")
}

// TimeHM renders hours and minutes: "10:30".
func TimeHM(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return ""
	}
	return t.Format("15:04")
}

// DateTimeGMT renders the instant in UTC: "05/09/2025 13:30:00 GMT".
func DateTimeGMT(v any) string {
	t, ok := TryParse(v)
	if !ok {
		return Invalid
	}
	return t.UTC().Format("02/01/2006 15:04:05") + " GMT"
}

// ToGMT returns the same instant expressed in UTC, or the zero time.
func ToGMT(v any) time.Time {
	t, ok := TryParse(v)
	if !ok {
		return time.Time{}
	}
	return t.UTC()
}
