// Package hours resolves the layered opening-hours configuration
// (holidays > special periods > weekly defaults) for calendar dates.
package hours

import (
	"time"

	"creneau/internal/model"
)

// Status of a resolved day.
type Status int

const (
	// StatusClosedHoliday means the date matches a holiday entry.
	StatusClosedHoliday Status = iota
	// StatusClosedNoHours means the applicable weekly entry is closed or
	// missing. An incomplete configuration degrades to closed.
	StatusClosedNoHours
	// StatusOpen means the club is open with a concrete window.
	StatusOpen
)

// SourceKind says which configuration layer produced an open window.
type SourceKind int

const (
	SourceDefault SourceKind = iota
	SourceSpecial
)

// ResolvedDay is the outcome of evaluating the layered configuration
// for one calendar date.
type ResolvedDay struct {
	Date    string // "YYYY-MM-DD"
	Status  Status
	Start   string // "HH:MM", open days only
	End     string // "HH:MM", open days only
	Source  SourceKind
	Holiday model.Holiday // set when StatusClosedHoliday
	Period  string        // special period name when SourceSpecial
}

// IsOpen reports whether the day has a bookable window.
func (d ResolvedDay) IsOpen() bool {
	return d.Status == StatusOpen
}

// Resolve evaluates the configuration for a date. First match wins:
// a holiday closes the whole day; otherwise the first special period
// covering the date supplies the weekly hours; otherwise the defaults
// apply. A special period never falls through to the defaults: if its
// weekly hours lack the weekday, the day is closed.
func Resolve(date time.Time, settings model.OpeningHoursSettings) ResolvedDay {
	dateStr := date.Format(model.DateLayout)

	if holiday, ok := settings.HolidayFor(dateStr); ok {
		return ResolvedDay{Date: dateStr, Status: StatusClosedHoliday, Holiday: holiday}
	}

	weekday := date.Weekday()

	if period, ok := settings.PeriodFor(dateStr); ok {
		day, ok := period.Hours.ForWeekday(weekday)
		if !ok || !day.IsOpen {
			return ResolvedDay{Date: dateStr, Status: StatusClosedNoHours}
		}
		return ResolvedDay{
			Date:   dateStr,
			Status: StatusOpen,
			Start:  day.Start,
			End:    day.End,
			Source: SourceSpecial,
			Period: period.Name,
		}
	}

	day, ok := settings.DefaultHours.ForWeekday(weekday)
	if !ok || !day.IsOpen {
		return ResolvedDay{Date: dateStr, Status: StatusClosedNoHours}
	}
	return ResolvedDay{
		Date:   dateStr,
		Status: StatusOpen,
		Start:  day.Start,
		End:    day.End,
		Source: SourceDefault,
	}
}
