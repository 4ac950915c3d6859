package hours

import (
	"testing"
	"time"

	"creneau/internal/model"
)

func day(dow int, open bool, start, end string) model.WeeklyHoursDay {
	return model.WeeklyHoursDay{
		DayOfWeek:  dow,
		DailyHours: model.DailyHours{IsOpen: open, Start: start, End: end},
	}
}

func fullWeek(start, end string) model.WeeklyHours {
	w := make(model.WeeklyHours, 0, 7)
	for dow := 0; dow < 7; dow++ {
		w = append(w, day(dow, true, start, end))
	}
	return w
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolve(t *testing.T) {
	settings := model.OpeningHoursSettings{
		DefaultHours: fullWeek("09:00", "21:00"),
		SpecialPeriods: []model.SpecialPeriod{
			{
				Name:  "Vacances",
				Start: "2025-07-01",
				End:   "2025-08-31",
				Hours: model.WeeklyHours{
					day(0, true, "10:00", "12:00"),
					day(1, false, "", ""),
					day(2, true, "10:00", "18:00"),
					day(3, true, "10:00", "18:00"),
					day(4, true, "10:00", "18:00"),
					day(5, true, "10:00", "18:00"),
					day(6, true, "10:00", "16:00"),
				},
			},
		},
		Holidays: []model.Holiday{
			{ID: "h1", Name: "Noël", Date: "2025-12-25"},
			{ID: "h2", Name: "Fête nationale", Date: "2025-07-14"},
		},
	}

	tests := []struct {
		name       string
		date       time.Time
		wantStatus Status
		wantStart  string
		wantEnd    string
		wantSource SourceKind
		wantPeriod string
	}{
		{
			name:       "regular monday uses defaults",
			date:       date(2025, time.December, 22),
			wantStatus: StatusOpen,
			wantStart:  "09:00",
			wantEnd:    "21:00",
			wantSource: SourceDefault,
		},
		{
			name:       "holiday closes the day",
			date:       date(2025, time.December, 25),
			wantStatus: StatusClosedHoliday,
		},
		{
			name:       "holiday wins over special period",
			date:       date(2025, time.July, 14),
			wantStatus: StatusClosedHoliday,
		},
		{
			name:       "monday inside period is closed despite open defaults",
			date:       date(2025, time.July, 7),
			wantStatus: StatusClosedNoHours,
		},
		{
			name:       "tuesday inside period uses period hours",
			date:       date(2025, time.July, 8),
			wantStatus: StatusOpen,
			wantStart:  "10:00",
			wantEnd:    "18:00",
			wantSource: SourceSpecial,
			wantPeriod: "Vacances",
		},
		{
			name:       "period boundary start day is inclusive",
			date:       date(2025, time.July, 1),
			wantStatus: StatusOpen,
			wantStart:  "10:00",
			wantEnd:    "18:00",
			wantSource: SourceSpecial,
			wantPeriod: "Vacances",
		},
		{
			name:       "period boundary end day is inclusive",
			date:       date(2025, time.August, 31), // a Sunday
			wantStatus: StatusOpen,
			wantStart:  "10:00",
			wantEnd:    "12:00",
			wantSource: SourceSpecial,
			wantPeriod: "Vacances",
		},
		{
			name:       "day after period end is back on defaults",
			date:       date(2025, time.September, 1),
			wantStatus: StatusOpen,
			wantStart:  "09:00",
			wantEnd:    "21:00",
			wantSource: SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.date, settings)

			if got.Status != tt.wantStatus {
				t.Fatalf("status: expected %v, got %v", tt.wantStatus, got.Status)
			}
			if got.Status != StatusOpen {
				return
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("window: expected %s-%s, got %s-%s", tt.wantStart, tt.wantEnd, got.Start, got.End)
			}
			if got.Source != tt.wantSource {
				t.Errorf("source: expected %v, got %v", tt.wantSource, got.Source)
			}
			if got.Period != tt.wantPeriod {
				t.Errorf("period: expected %q, got %q", tt.wantPeriod, got.Period)
			}
		})
	}
}

func TestResolve_HolidayCarriesEntry(t *testing.T) {
	settings := model.OpeningHoursSettings{
		DefaultHours: fullWeek("09:00", "21:00"),
		Holidays:     []model.Holiday{{ID: "h1", Name: "Jour de l'an", Date: "2025-01-01"}},
	}

	got := Resolve(date(2025, time.January, 1), settings)
	if got.Status != StatusClosedHoliday {
		t.Fatalf("expected holiday closure, got %v", got.Status)
	}
	if got.Holiday.Name != "Jour de l'an" {
		t.Errorf("expected holiday entry on result, got %+v", got.Holiday)
	}
}

func TestResolve_MissingWeekdayDegradesToClosed(t *testing.T) {
	// Only Monday configured; every other weekday is a configuration
	// defect and must resolve closed, not fail.
	settings := model.OpeningHoursSettings{
		DefaultHours: model.WeeklyHours{day(1, true, "09:00", "21:00")},
	}

	if got := Resolve(date(2025, time.December, 22), settings); got.Status != StatusOpen {
		t.Errorf("monday: expected open, got %v", got.Status)
	}
	if got := Resolve(date(2025, time.December, 23), settings); got.Status != StatusClosedNoHours {
		t.Errorf("tuesday: expected closed, got %v", got.Status)
	}
}

func TestResolve_ClosedWeekday(t *testing.T) {
	w := fullWeek("09:00", "21:00")
	w[0] = day(0, false, "", "") // Sunday closed

	settings := model.OpeningHoursSettings{DefaultHours: w}

	got := Resolve(date(2025, time.December, 21), settings) // a Sunday
	if got.Status != StatusClosedNoHours {
		t.Errorf("expected closed sunday, got %v", got.Status)
	}
}

func TestValidateConfiguration(t *testing.T) {
	valid := model.OpeningHoursSettings{
		DefaultHours: fullWeek("09:00", "21:00"),
		SpecialPeriods: []model.SpecialPeriod{
			{Name: "Vacances", Start: "2025-07-01", End: "2025-08-31", Hours: fullWeek("10:00", "18:00")},
		},
		Holidays: []model.Holiday{{Name: "Noël", Date: "2025-12-25"}},
	}
	if err := ValidateConfiguration(valid); err != nil {
		t.Fatalf("valid configuration rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.OpeningHoursSettings)
	}{
		{"missing weekday entry", func(s *model.OpeningHoursSettings) {
			s.DefaultHours = s.DefaultHours[:6]
		}},
		{"duplicate weekday entry", func(s *model.OpeningHoursSettings) {
			s.DefaultHours[1] = s.DefaultHours[0]
		}},
		{"weekday out of range", func(s *model.OpeningHoursSettings) {
			s.DefaultHours[0].DayOfWeek = 7
		}},
		{"start not before end", func(s *model.OpeningHoursSettings) {
			s.DefaultHours[2].Start = "21:00"
			s.DefaultHours[2].End = "09:00"
		}},
		{"bad clock format", func(s *model.OpeningHoursSettings) {
			s.DefaultHours[3].Start = "9:00"
		}},
		{"period start after end", func(s *model.OpeningHoursSettings) {
			s.SpecialPeriods[0].Start = "2025-09-01"
		}},
		{"period with bad date", func(s *model.OpeningHoursSettings) {
			s.SpecialPeriods[0].End = "31/08/2025"
		}},
		{"period with incomplete week", func(s *model.OpeningHoursSettings) {
			s.SpecialPeriods[0].Hours = s.SpecialPeriods[0].Hours[:3]
		}},
		{"holiday with bad date", func(s *model.OpeningHoursSettings) {
			s.Holidays[0].Date = "2025-13-40"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := model.OpeningHoursSettings{
				DefaultHours:   append(model.WeeklyHours{}, valid.DefaultHours...),
				SpecialPeriods: append([]model.SpecialPeriod{}, valid.SpecialPeriods...),
				Holidays:       append([]model.Holiday{}, valid.Holidays...),
			}
			bad.SpecialPeriods[0].Hours = append(model.WeeklyHours{}, valid.SpecialPeriods[0].Hours...)
			tt.mutate(&bad)

			if err := ValidateConfiguration(bad); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
