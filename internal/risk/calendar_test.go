package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, 1, DayOfWeek("2024-11-11")) // Monday
	assert.Equal(t, 6, DayOfWeek("2024-11-16")) // Saturday
	assert.Equal(t, 7, DayOfWeek("2024-11-17")) // Sunday maps to 7
	assert.Equal(t, 0, DayOfWeek("not-a-date"))
}

func TestWeekDatesAnchorsOnMonday(t *testing.T) {
	week := WeekDates("2024-11-13", 5) // Wednesday
	require.Len(t, week, 5)
	assert.Equal(t, "2024-11-11", week[0])
	assert.Equal(t, "2024-11-15", week[4])
}

func TestWeekDatesSixDaySchoolWeek(t *testing.T) {
	week := WeekDates("2024-11-11", 6)
	require.Len(t, week, 6)
	assert.Equal(t, "2024-11-16", week[5])
}

func TestWeekDatesFromSundayStaysInSameWeek(t *testing.T) {
	week := WeekDates("2024-11-17", 5)
	require.Len(t, week, 5)
	assert.Equal(t, "2024-11-11", week[0])
}

func TestWeekDatesDefaultsSchoolDays(t *testing.T) {
	assert.Len(t, WeekDates("2024-11-11", 0), 5)
}

func TestNextSchoolDaySkipsWeekend(t *testing.T) {
	// Friday with a 5-day week jumps to Monday.
	assert.Equal(t, "2024-11-18", NextSchoolDay("2024-11-15", 5, nil))
	// Friday with a 6-day week lands on Saturday.
	assert.Equal(t, "2024-11-16", NextSchoolDay("2024-11-15", 6, nil))
}

func TestNextSchoolDaySkipsVacations(t *testing.T) {
	vacations := map[string]struct{}{
		"2024-11-12": {},
		"2024-11-13": {},
	}
	assert.Equal(t, "2024-11-14", NextSchoolDay("2024-11-11", 5, vacations))
}

func TestNextSchoolDayDegenerateFallback(t *testing.T) {
	vacations := map[string]struct{}{}
	d := "2024-11-11"
	for i := 1; i <= nextSchoolDayHorizon; i++ {
		t2, err := ParseDate(d)
		require.NoError(t, err)
		vacations[t2.AddDate(0, 0, i).Format(DateLayout)] = struct{}{}
	}
	// Every candidate is a vacation; the scan returns its last probe.
	assert.Equal(t, "2024-12-11", NextSchoolDay(d, 5, vacations))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "Mon 11 Nov 2024", FormatDisplay("2024-11-11"))
	assert.Equal(t, "garbage", FormatDisplay("garbage"))
}
