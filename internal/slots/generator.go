// Package slots derives the bookable time options for a resolved day.
package slots

import (
	"fmt"
	"strconv"
	"strings"

	"creneau/internal/hours"
)

// StepMinutes is the booking grid granularity. Every start and end
// option sits on a 30-minute boundary from the day's opening time,
// and no booking is shorter than one step.
const StepMinutes = 30

// StartOptions returns every valid start time for the day, ascending.
// Closed days have no options. The last option always leaves at least
// one step before closing.
func StartOptions(day hours.ResolvedDay) []string {
	if !day.IsOpen() {
		return nil
	}

	open, err := clockToMinutes(day.Start)
	if err != nil {
		return nil
	}
	close, err := clockToMinutes(day.End)
	if err != nil {
		return nil
	}

	var options []string
	for t := open; t < close; t += StepMinutes {
		options = append(options, minutesToClock(t))
	}
	return options
}

// EndOptions returns every valid end time given a chosen start,
// ascending. The first option is one step after the start; the last is
// the closing time itself.
func EndOptions(day hours.ResolvedDay, start string) []string {
	if !day.IsOpen() {
		return nil
	}

	chosen, err := clockToMinutes(start)
	if err != nil {
		return nil
	}
	close, err := clockToMinutes(day.End)
	if err != nil {
		return nil
	}

	var options []string
	for t := chosen + StepMinutes; t <= close; t += StepMinutes {
		options = append(options, minutesToClock(t))
	}
	return options
}

func clockToMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}
	return hour*60 + minute, nil
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
