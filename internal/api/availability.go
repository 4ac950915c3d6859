package api

import (
	"encoding/json"
	"net/http"
	"time"

	"creneau/internal/hours"
	"creneau/internal/metrics"
	"creneau/internal/model"
	"creneau/internal/slots"
)

// DaySlot is one booked reservation in the response. Member identity
// stays internal; only the display name is exposed.
type DaySlot struct {
	Start  string `json:"start"`  // HH:MM
	End    string `json:"end"`    // HH:MM
	Member string `json:"member"`
}

// DayAvailability describes one calendar date.
type DayAvailability struct {
	Date         string    `json:"date"`
	Open         bool      `json:"open"`
	Reason       string    `json:"reason,omitempty"` // "holiday" when closed for one
	OpenFrom     string    `json:"open_from,omitempty"`
	OpenUntil    string    `json:"open_until,omitempty"`
	Source       string    `json:"source,omitempty"` // "default" or the special period name
	StartOptions []string  `json:"start_options,omitempty"`
	Slots        []DaySlot `json:"slots"`
}

// AvailabilityResponse is the payload of GET /api/availability.
type AvailabilityResponse struct {
	Days   []DayAvailability `json:"days"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability returns per-date opening windows and booked slots.
// GET /api/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	q := r.URL.Query()
	start, end, err := parseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := q.Get("start") + ":" + q.Get("end")
	if s.cache != nil {
		if payload, err := s.cache.CachedAvailability(r.Context(), cacheKey); err == nil && payload != nil {
			metrics.IncAvailabilityRequest("hit")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
	}
	metrics.IncAvailabilityRequest("miss")

	settings, err := s.data.GetOpeningHours(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load opening hours")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	booked, err := s.data.GetSlotsForRange(r.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error().Err(err).Msg("load slots")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	byDate := make(map[string][]model.Slot)
	for _, slot := range booked {
		byDate[slot.Date()] = append(byDate[slot.Date()], slot)
	}

	var resp AvailabilityResponse
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		resp.Days = append(resp.Days, buildDay(date, settings, byDate[date.Format(model.DateLayout)]))
	}
	resp.Period.Start = q.Get("start")
	resp.Period.End = q.Get("end")

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.cache.CacheAvailability(r.Context(), cacheKey, payload, cacheTTL)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func buildDay(date time.Time, settings model.OpeningHoursSettings, booked []model.Slot) DayAvailability {
	day := DayAvailability{
		Date:  date.Format(model.DateLayout),
		Slots: []DaySlot{},
	}

	resolved := hours.Resolve(date, settings)
	switch resolved.Status {
	case hours.StatusClosedHoliday:
		day.Reason = "holiday"
		return day
	case hours.StatusClosedNoHours:
		return day
	}

	day.Open = true
	day.OpenFrom = resolved.Start
	day.OpenUntil = resolved.End
	day.Source = "default"
	if resolved.Source == hours.SourceSpecial {
		day.Source = resolved.Period
	}
	day.StartOptions = slots.StartOptions(resolved)

	for _, slot := range booked {
		day.Slots = append(day.Slots, DaySlot{
			Start:  slot.StartClock(),
			End:    slot.End.Format(model.TimeLayout),
			Member: slot.UserName,
		})
	}
	return day
}
