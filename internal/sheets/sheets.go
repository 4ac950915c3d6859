// Package sheets mirrors the club calendar into a Google Spreadsheet
// so board members without Telegram can watch the month fill up. The
// mirror is one-way; the spreadsheet is never read back as truth.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"creneau/internal/model"
)

var slotHeaders = []interface{}{"ID", "Date", "Début", "Fin", "Membre"}

// Service writes calendar rows to one spreadsheet.
type Service struct {
	srv           *sheets.Service
	spreadsheetID string
	logger        *zerolog.Logger

	mu       sync.Mutex
	rowCache map[string]int
}

// NewService builds the Sheets client from a service-account key file.
func NewService(ctx context.Context, credentialsFile, spreadsheetID string, logger *zerolog.Logger) (*Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Service{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		rowCache:      make(map[string]int),
	}, nil
}

// SyncMonth rewrites the month's sheet from scratch. Simple and always
// correct; the calendar is small enough that diffs are not worth it.
func (s *Service) SyncMonth(ctx context.Context, year int, month time.Month, slots []model.Slot) error {
	sheet := monthSheetName(year, month)
	if err := s.ensureSheet(ctx, sheet); err != nil {
		return err
	}

	clearRange := fmt.Sprintf("%s!A:E", sheet)
	if _, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := [][]interface{}{slotHeaders}
	s.mu.Lock()
	s.rowCache = make(map[string]int)
	for i, slot := range slots {
		if !slot.InMonth(year, month) {
			continue
		}
		values = append(values, slotRowValues(slot))
		s.rowCache[slot.ID] = i + 2 // 1-based, after header
	}
	s.mu.Unlock()

	vr := &sheets.ValueRange{Values: values}
	_, err := s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A1", sheet), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	s.logger.Info().
		Str("sheet", sheet).
		Int("rows", len(values)-1).
		Msg("month mirrored to spreadsheet")
	return nil
}

// UpsertSlot writes one slot row, appending when the slot is unknown.
func (s *Service) UpsertSlot(ctx context.Context, slot model.Slot) error {
	sheet := monthSheetName(slot.Start.Year(), slot.Start.Month())
	if err := s.ensureSheet(ctx, sheet); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{slotRowValues(slot)}}
	if row, ok := s.getCachedRow(slot.ID); ok {
		_, err := s.srv.Spreadsheets.Values.
			Update(s.spreadsheetID, fmt.Sprintf("%s!A%d", sheet, row), vr).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update row: %w", err)
		}
		return nil
	}

	resp, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("%s!A:E", sheet), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		if row, ok := parseRowFromRange(resp.Updates.UpdatedRange); ok {
			s.setCachedRow(slot.ID, row)
		}
	}
	return nil
}

// RemoveSlot blanks the slot's row when its position is known.
func (s *Service) RemoveSlot(ctx context.Context, slot model.Slot) error {
	row, ok := s.getCachedRow(slot.ID)
	if !ok {
		// Position unknown; the next SyncMonth rewrite will drop it.
		return nil
	}
	sheet := monthSheetName(slot.Start.Year(), slot.Start.Month())
	rng := fmt.Sprintf("%s!A%d:E%d", sheet, row, row)
	_, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear row: %w", err)
	}
	s.deleteCachedRow(slot.ID)
	return nil
}

func (s *Service) ensureSheet(ctx context.Context, title string) error {
	ss, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: title},
		},
	}}}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}

func monthSheetName(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func slotRowValues(s model.Slot) []interface{} {
	return []interface{}{
		s.ID,
		s.Date(),
		s.StartClock(),
		s.End.Format(model.TimeLayout),
		s.UserName,
	}
}

// parseRowFromRange extracts the row number from a range like
// "2025-12!A7:E7".
func parseRowFromRange(rng string) (int, bool) {
	i := strings.LastIndexByte(rng, '!')
	cell := rng[i+1:]
	for len(cell) > 0 && (cell[0] < '0' || cell[0] > '9') {
		cell = cell[1:]
	}
	row := 0
	seen := false
	for len(cell) > 0 && cell[0] >= '0' && cell[0] <= '9' {
		row = row*10 + int(cell[0]-'0')
		cell = cell[1:]
		seen = true
	}
	return row, seen
}

func (s *Service) getCachedRow(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *Service) setCachedRow(id string, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache[id] = row
}

func (s *Service) deleteCachedRow(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rowCache, id)
}

// ClearCache drops all cached row positions.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache = make(map[string]int)
}
