package slots

import (
	"testing"

	"creneau/internal/hours"
)

func openDay(start, end string) hours.ResolvedDay {
	return hours.ResolvedDay{Date: "2025-12-22", Status: hours.StatusOpen, Start: start, End: end}
}

func TestStartOptions(t *testing.T) {
	tests := []struct {
		name      string
		day       hours.ResolvedDay
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{
			name:      "full monday",
			day:       openDay("09:00", "21:00"),
			wantCount: 24, // 12 hours * 2
			wantFirst: "09:00",
			wantLast:  "20:30",
		},
		{
			name:      "half-hour aligned window",
			day:       openDay("09:00", "12:30"),
			wantCount: 7,
			wantFirst: "09:00",
			wantLast:  "12:00",
		},
		{
			name:      "window starting on a half hour",
			day:       openDay("09:30", "11:00"),
			wantCount: 3,
			wantFirst: "09:30",
			wantLast:  "10:30",
		},
		{
			name: "closed day has no options",
			day:  hours.ResolvedDay{Date: "2025-12-25", Status: hours.StatusClosedHoliday},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := StartOptions(tt.day)

			if len(options) != tt.wantCount {
				t.Fatalf("expected %d options, got %d: %v", tt.wantCount, len(options), options)
			}
			if tt.wantCount == 0 {
				return
			}
			if options[0] != tt.wantFirst {
				t.Errorf("first option: expected %s, got %s", tt.wantFirst, options[0])
			}
			if options[len(options)-1] != tt.wantLast {
				t.Errorf("last option: expected %s, got %s", tt.wantLast, options[len(options)-1])
			}
		})
	}
}

func TestStartOptions_AllWithinWindow(t *testing.T) {
	day := openDay("09:00", "21:30")
	for _, opt := range StartOptions(day) {
		if opt < day.Start || opt >= day.End {
			t.Errorf("option %s outside [%s, %s)", opt, day.Start, day.End)
		}
	}
}

func TestEndOptions(t *testing.T) {
	tests := []struct {
		name      string
		day       hours.ResolvedDay
		start     string
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{
			name:      "from opening time",
			day:       openDay("09:00", "21:00"),
			start:     "09:00",
			wantCount: 24,
			wantFirst: "09:30",
			wantLast:  "21:00",
		},
		{
			name:      "last start leaves a single option",
			day:       openDay("09:00", "21:00"),
			start:     "20:30",
			wantCount: 1,
			wantFirst: "21:00",
			wantLast:  "21:00",
		},
		{
			name:      "closing on a half hour",
			day:       openDay("09:00", "21:30"),
			start:     "20:00",
			wantCount: 3,
			wantFirst: "20:30",
			wantLast:  "21:30",
		},
		{
			name: "closed day has no options",
			day:  hours.ResolvedDay{Status: hours.StatusClosedNoHours},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := EndOptions(tt.day, tt.start)

			if len(options) != tt.wantCount {
				t.Fatalf("expected %d options, got %d: %v", tt.wantCount, len(options), options)
			}
			if tt.wantCount == 0 {
				return
			}
			if options[0] != tt.wantFirst {
				t.Errorf("first option: expected %s, got %s", tt.wantFirst, options[0])
			}
			if options[len(options)-1] != tt.wantLast {
				t.Errorf("last option: expected %s, got %s", tt.wantLast, options[len(options)-1])
			}
		})
	}
}

func TestEndOptions_MinimumBookingLength(t *testing.T) {
	day := openDay("09:00", "21:00")
	for _, start := range StartOptions(day) {
		ends := EndOptions(day, start)
		if len(ends) == 0 {
			t.Errorf("start %s has no end options", start)
			continue
		}
		if ends[0] <= start {
			t.Errorf("start %s: first end %s not after start", start, ends[0])
		}
		if last := ends[len(ends)-1]; last > day.End {
			t.Errorf("start %s: end %s past closing %s", start, last, day.End)
		}
	}
}
