package calendar

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iliyamo/terrace-reservation/internal/datefmt"
)

// WeekdayHeaders are the column titles, Sunday first.
var WeekdayHeaders = []string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// Month identifies a displayed calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, using t's own calendar fields.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth reads "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// first returns the first day of the month at UTC midnight.  Only the
// calendar fields matter, so the zone is irrelevant.
func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Prev returns the month before m.
func (m Month) Prev() Month { return MonthOf(m.first().AddDate(0, -1, 0)) }

// Next returns the month after m.
func (m Month) Next() Month { return MonthOf(m.first().AddDate(0, 1, 0)) }

// Days returns the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of day 1; it equals the number of leading
// empty cells in a Sunday-first grid.
func (m Month) FirstWeekday() time.Weekday { return m.first().Weekday() }

// Date returns the YYYY-MM-DD string of a day in m.
func (m Month) Date(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), day)
}

// Title renders "Septiembre 2025".
func (m Month) Title() string {
	if m.Month < time.January || m.Month > time.December {
		return strconv.Itoa(m.Year)
	}
	return cases.Title(language.Spanish).String(monday.Format(m.first(), "January 2006", datefmt.Locale))
}
