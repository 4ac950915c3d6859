package booking

import (
	"time"

	"creneau/internal/hours"
	"creneau/internal/model"
)

// Validate checks a candidate reservation window against the opening
// hours of its calendar date. A nil return means the booking is
// acceptable. The engine deliberately does not check overlap against
// other members' slots: the court is a shared resource.
func Validate(start, end time.Time, settings model.OpeningHoursSettings) error {
	if !end.After(start) {
		return ErrInvalidOrdering
	}

	// A booking never crosses midnight; its date is the date of start.
	if start.Format(model.DateLayout) != end.Format(model.DateLayout) {
		return ErrOutsideOpeningHours
	}

	day := hours.Resolve(start, settings)
	if !day.IsOpen() {
		return ErrOutsideOpeningHours
	}

	startClock := start.Format(model.TimeLayout)
	endClock := end.Format(model.TimeLayout)
	if startClock < day.Start || endClock > day.End {
		return ErrOutsideOpeningHours
	}

	return nil
}
