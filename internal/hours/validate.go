package hours

import (
	"fmt"
	"time"

	"creneau/internal/model"
)

// ValidateConfiguration checks an edited opening-hours configuration
// before it is persisted. Resolution itself never fails on a bad
// configuration (it degrades to closed); this helper is for admin edits.
func ValidateConfiguration(settings model.OpeningHoursSettings) error {
	if err := validateWeekly(settings.DefaultHours, "default hours"); err != nil {
		return err
	}

	for _, p := range settings.SpecialPeriods {
		if !validDate(p.Start) || !validDate(p.End) {
			return fmt.Errorf("period %q: dates must be YYYY-MM-DD", p.Name)
		}
		if p.Start > p.End {
			return fmt.Errorf("period %q: start %s after end %s", p.Name, p.Start, p.End)
		}
		if err := validateWeekly(p.Hours, fmt.Sprintf("period %q", p.Name)); err != nil {
			return err
		}
	}

	for _, h := range settings.Holidays {
		if !validDate(h.Date) {
			return fmt.Errorf("holiday %q: date must be YYYY-MM-DD", h.Name)
		}
	}

	return nil
}

func validateWeekly(w model.WeeklyHours, scope string) error {
	if len(w) != 7 {
		return fmt.Errorf("%s: expected 7 weekday entries, got %d", scope, len(w))
	}

	seen := make(map[int]bool, 7)
	for _, day := range w {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return fmt.Errorf("%s: day of week %d out of range", scope, day.DayOfWeek)
		}
		if seen[day.DayOfWeek] {
			return fmt.Errorf("%s: duplicate entry for weekday %d", scope, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		if !day.IsOpen {
			continue
		}
		if !validClock(day.Start) || !validClock(day.End) {
			return fmt.Errorf("%s: weekday %d: times must be HH:MM", scope, day.DayOfWeek)
		}
		if day.Start >= day.End {
			return fmt.Errorf("%s: weekday %d: start %s not before end %s", scope, day.DayOfWeek, day.Start, day.End)
		}
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil && len(s) == len(model.DateLayout)
}

func validClock(s string) bool {
	_, err := time.Parse(model.TimeLayout, s)
	return err == nil && len(s) == len(model.TimeLayout)
}
