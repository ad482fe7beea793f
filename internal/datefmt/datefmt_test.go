package datefmt

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLocal(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := Local
	Local = loc
	t.Cleanup(func() { Local = prev })
}

func TestLongDate(t *testing.T) {
	withLocal(t, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"date only", "2025-09-05", "5 de septiembre de 2025"},
		{"day month year with time", "05-09-2025 10:30:00", "5 de septiembre de 2025"},
		{"iso fallback", "2025-01-31T23:00:00Z", "31 de enero de 2025"},
		{"unpadded date", "2025-9-5", "5 de septiembre de 2025"},
		{"unpadded day month year", "5-9-2025 10:30:00", "5 de septiembre de 2025"},
		{"slashed date", "2025/09/05", "5 de septiembre de 2025"},
		{"english month name", "September 5, 2025", "5 de septiembre de 2025"},
		{"time value", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), "1 de diciembre de 2024"},
		{"epoch millis", time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC).UnixMilli(), "2 de marzo de 2025"},
		{"garbage", "not a date", Invalid},
		{"digits string", "1725537600000", Invalid},
		{"empty", "", Invalid},
		{"zero time", time.Time{}, Invalid},
		{"unsupported type", struct{}{}, Invalid},
		{"nan", nanFloat(), Invalid},
		{"infinite", math.Inf(1), Invalid},
		{"epoch float beyond range", float64(1e20), Invalid},
		{"epoch float below range", -8.7e15, Invalid},
		{"epoch int beyond range", int64(9e15), Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongDate(tt.in))
		})
	}
}

func nanFloat() float64 {
	zero := 0.0
	return zero / zero
}

func TestWeekdayLongDate(t *testing.T) {
	withLocal(t, time.UTC)
	assert.Equal(t, "viernes, 5 de septiembre de 2025", WeekdayLongDate("2025-09-05"))
	assert.Equal(t, "miércoles, 1 de octubre de 2025", WeekdayLongDate("2025-10-01"))
	assert.Equal(t, Invalid, WeekdayLongDate("31-31-2025"))
}

func TestCompactFormats(t *testing.T) {
	withLocal(t, time.UTC)
	assert.Equal(t, "05/09/2025", ShortDate("2025-09-05"))
	assert.Equal(t, "05/09 10:30", AxisLabel("05-09-2025 10:30:00"))
	assert.Equal(t, "10:30", TimeHM("05-09-2025 10:30:00"))

	assert.Equal(t, Invalid, ShortDate("nope"))
	assert.Equal(t, "", AxisLabel("nope"))
	assert.Equal(t, "", TimeHM("nope"))
}

func TestZonedFormats(t *testing.T) {
	instant := time.Date(2025, time.September, 5, 13, 30, 0, 0, time.UTC)

	assert.Equal(t, "05/09/2025 10:30:00", DateTime(instant))
	assert.Equal(t, "05/09/2025 13:30:00 GMT", DateTimeGMT(instant))
	assert.Equal(t, "05/09/2025 13:30:00 GMT", DateTimeGMT(instant.In(Argentina)))
	assert.True(t, ToGMT(instant.In(Argentina)).Equal(instant))
	assert.Equal(t, time.UTC, ToGMT(instant).Location())

	assert.Equal(t, Invalid, DateTime("nope"))
	assert.Equal(t, Invalid, DateTimeGMT("nope"))
	assert.True(t, ToGMT("nope").IsZero())
}

func TestParse(t *testing.T) {
	withLocal(t, time.UTC)
	got, ok := TryParse("2025-09-05")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC), got)

	assert.True(t, Parse("garbage").IsZero())
	_, ok = TryParse((*time.Time)(nil))
	assert.False(t, ok)
}

func TestEpochRange(t *testing.T) {
	withLocal(t, time.UTC)
	got, ok := TryParse(int64(8.64e15))
	require.True(t, ok)
	assert.Equal(t, 275760, got.Year())

	got, ok = TryParse(float64(-8.64e15))
	require.True(t, ok)
	assert.Equal(t, -271821, got.Year())

	_, ok = TryParse(int64(8.64e15) + 1)
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "septiembre", MonthName(time.September))
	assert.Equal(t, "", MonthName(time.Month(13)))
	assert.Equal(t, "sábado", WeekdayName(time.Saturday))
	assert.Equal(t, "domingo", WeekdayName(time.Sunday))
	assert.Equal(t, "miércoles", WeekdayName(time.Wednesday))
	assert.Equal(t, "", WeekdayName(time.Weekday(9)))
}
