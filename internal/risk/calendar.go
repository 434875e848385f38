package risk

import "time"

// DateLayout is the ISO day format every engine entry point expects.
const DateLayout = "2006-01-02"

// nextSchoolDayHorizon bounds the forward scan of NextSchoolDay so the
// search always terminates, even for degenerate configurations where every
// scanned day is a vacation.
const nextSchoolDayHorizon = 30

// ParseDate validates an ISO day string. Callers are expected to validate
// input dates before invoking the engine; the engine itself treats an
// unparseable date as never matching any schedule.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// DayOfWeek returns the ISO weekday of an ISO date string, with Monday=1
// and Sunday=7. Invalid input yields 0, which matches no schedule entry.
func DayOfWeek(date string) int {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	return isoWeekday(t)
}

// WeekDates enumerates the Monday-anchored week containing date, truncated
// to schoolDays entries.
func WeekDates(date string, schoolDays int) []string {
	schoolDays = normalizeSchoolDays(schoolDays)
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil
	}
	monday := t.AddDate(0, 0, -(isoWeekday(t) - 1))
	dates := make([]string, 0, schoolDays)
	for i := 0; i < schoolDays; i++ {
		dates = append(dates, monday.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// NextSchoolDay scans forward day by day for the first date whose weekday
// falls within the school week and which is not a vacation. The scan is
// capped; if every candidate inside the horizon is excluded the last
// scanned date is returned as the documented degenerate fallback.
func NextSchoolDay(date string, schoolDays int, vacationDates map[string]struct{}) string {
	schoolDays = normalizeSchoolDays(schoolDays)
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	for i := 0; i < nextSchoolDayHorizon; i++ {
		t = t.AddDate(0, 0, 1)
		candidate := t.Format(DateLayout)
		if isoWeekday(t) > schoolDays {
			continue
		}
		if _, vacation := vacationDates[candidate]; vacation {
			continue
		}
		return candidate
	}
	return t.Format(DateLayout)
}

// FormatDisplay renders an ISO date for human consumption. Display only,
// never part of the computation contract.
func FormatDisplay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02 Jan 2006")
}

func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

func normalizeSchoolDays(schoolDays int) int {
	if schoolDays <= 0 || schoolDays > 7 {
		return 5
	}
	return schoolDays
}
