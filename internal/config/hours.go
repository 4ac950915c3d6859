package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"creneau/internal/hours"
	"creneau/internal/model"
)

// DayHoursConfig is one weekday's window in hours.yaml.
type DayHoursConfig struct {
	DayOfWeek int    `yaml:"day_of_week"` // 0=Sun .. 6=Sat
	Open      bool   `yaml:"open"`
	Start     string `yaml:"start,omitempty"` // "09:00"
	End       string `yaml:"end,omitempty"`   // "21:00"
}

// PeriodConfig is a special period entry in hours.yaml.
type PeriodConfig struct {
	Name  string           `yaml:"name"`
	Start string           `yaml:"start"` // "YYYY-MM-DD"
	End   string           `yaml:"end"`
	Hours []DayHoursConfig `yaml:"hours"`
}

// HolidayConfig is a single closed day in hours.yaml.
type HolidayConfig struct {
	Date string `yaml:"date"` // "YYYY-MM-DD"
	Name string `yaml:"name"`
}

// HoursConfig is the root of hours.yaml, the opening-hours seed used
// when the store holds no configuration yet.
type HoursConfig struct {
	DefaultHours []DayHoursConfig `yaml:"default_hours"`
	Periods      []PeriodConfig   `yaml:"special_periods"`
	Holidays     []HolidayConfig  `yaml:"holidays"`
}

// LoadHoursConfig loads and validates the opening-hours seed file.
func LoadHoursConfig(path string) (*HoursConfig, error) {
	if path == "" {
		path = "configs/hours.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hours config: %w", err)
	}

	var cfg HoursConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse hours config: %w", err)
	}

	if err := hours.ValidateConfiguration(cfg.ToSettings()); err != nil {
		return nil, fmt.Errorf("validate hours config: %w", err)
	}

	return &cfg, nil
}

// ToSettings converts the seed file into the domain configuration.
// IDs are derived from the entry's content, so reloading an unchanged
// file yields the same IDs instead of churning them.
func (c *HoursConfig) ToSettings() model.OpeningHoursSettings {
	settings := model.OpeningHoursSettings{
		DefaultHours: toWeekly(c.DefaultHours),
	}

	for _, p := range c.Periods {
		settings.SpecialPeriods = append(settings.SpecialPeriods, model.SpecialPeriod{
			ID:    seedID("period", p.Name, p.Start, p.End),
			Name:  p.Name,
			Start: p.Start,
			End:   p.End,
			Hours: toWeekly(p.Hours),
		})
	}

	for _, h := range c.Holidays {
		settings.Holidays = append(settings.Holidays, model.Holiday{
			ID:   seedID("holiday", h.Name, h.Date),
			Name: h.Name,
			Date: h.Date,
		})
	}

	return settings
}

func seedID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "|"))).String()
}

func toWeekly(days []DayHoursConfig) model.WeeklyHours {
	w := make(model.WeeklyHours, 0, len(days))
	for _, d := range days {
		w = append(w, model.WeeklyHoursDay{
			DayOfWeek:  d.DayOfWeek,
			DailyHours: model.DailyHours{IsOpen: d.Open, Start: d.Start, End: d.End},
		})
	}
	return w
}

// DefaultHoursSettings is the club's initial configuration, used when
// neither the store nor the seed file has anything.
func DefaultHoursSettings() model.OpeningHoursSettings {
	week := model.WeeklyHours{
		{DayOfWeek: 0, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "12:30"}},
		{DayOfWeek: 1, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "21:00"}},
		{DayOfWeek: 2, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "21:00"}},
		{DayOfWeek: 3, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "21:00"}},
		{DayOfWeek: 4, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "21:30"}},
		{DayOfWeek: 5, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "22:00"}},
		{DayOfWeek: 6, DailyHours: model.DailyHours{IsOpen: true, Start: "09:00", End: "19:00"}},
	}

	return model.OpeningHoursSettings{
		DefaultHours: week,
		Holidays: []model.Holiday{
			{ID: seedID("holiday", "Jour de l'an", "2025-01-01"), Name: "Jour de l'an", Date: "2025-01-01"},
			{ID: seedID("holiday", "Noël", "2025-12-25"), Name: "Noël", Date: "2025-12-25"},
		},
	}
}
