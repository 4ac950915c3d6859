// Package export renders the club calendar to Excel workbooks for the
// admins. One sheet per export: the month's slots plus a per-member
// quota summary.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"creneau/internal/model"
	"creneau/internal/quota"
)

var slotColumns = []string{"Date", "Jour", "Début", "Fin", "Membre"}
var summaryColumns = []string{"Membre", "Créneaux", "Quota atteint"}
var eventColumns = []string{"Date", "Événement", "Horaire"}

var frenchDays = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// MonthWorkbook builds the month's calendar workbook.
func MonthWorkbook(year int, month time.Month, slots []model.Slot, events []model.Event, users []model.User, settings model.Settings) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("%04d-%02d", year, int(month))
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeader(f, sheet, 1, slotColumns); err != nil {
		return nil, err
	}
	row := 2
	for _, s := range slots {
		if !s.InMonth(year, month) {
			continue
		}
		values := []interface{}{
			s.Date(),
			frenchDays[int(s.Start.Weekday())],
			s.StartClock(),
			s.End.Format(model.TimeLayout),
			s.UserName,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	if len(events) > 0 {
		row++
		if err := writeHeader(f, sheet, row, eventColumns); err != nil {
			return nil, err
		}
		row++
		for _, e := range events {
			horaire := "journée"
			if !e.AllDay {
				horaire = e.Start.Format(model.TimeLayout) + "-" + e.End.Format(model.TimeLayout)
			}
			values := []interface{}{e.Start.Format(model.DateLayout), e.Title, horaire}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	// Quota summary below the listing, one blank row apart.
	row++
	if err := writeHeader(f, sheet, row, summaryColumns); err != nil {
		return nil, err
	}
	row++
	for _, u := range users {
		met := "non"
		if quota.IsMet(u.ID, u.Role, slots, settings, year, month) {
			met = "oui"
		}
		values := []interface{}{u.Name, quota.Count(u.ID, slots, year, month), met}
		if err := writeRow(f, sheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	return f, nil
}

// WriteMonth renders the workbook and streams it to w.
func WriteMonth(w io.Writer, year int, month time.Month, slots []model.Slot, events []model.Event, users []model.User, settings model.Settings) error {
	f, err := MonthWorkbook(year, month, slots, events, users, settings)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, row int, columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, row)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), row)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}
