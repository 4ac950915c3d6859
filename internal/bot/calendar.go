package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"creneau/internal/model"
)

var frenchMonths = [...]string{"", "Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre"}

// monthCalendarKeyboard builds the inline calendar for one month.
// openDates keys are YYYY-MM-DD strings; closed days render as dots and
// do nothing when tapped.
func monthCalendarKeyboard(year int, month time.Month, openDates map[string]bool) tgbotapi.InlineKeyboardMarkup {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	weekdayOffset := int(firstDay.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7 // Monday-first grid
	}
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	rows := make([][]tgbotapi.InlineKeyboardButton, 0)

	// Month header with navigation
	prev := firstDay.AddDate(0, -1, 0)
	next := firstDay.AddDate(0, 1, 0)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("«", fmt.Sprintf("cal:%04d-%02d", prev.Year(), int(prev.Month()))),
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", frenchMonths[int(month)], year), "noop"),
		tgbotapi.NewInlineKeyboardButtonData("»", fmt.Sprintf("cal:%04d-%02d", next.Year(), int(next.Month()))),
	})

	// Weekday header
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Lu", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Ma", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Me", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Je", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Ve", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Sa", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Di", "noop"),
	})

	day := 1
	for day <= daysInMonth {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for col := 1; col <= 7; col++ {
			if len(rows) == 2 && col < weekdayOffset {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}
			if day > daysInMonth {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}
			dateStr := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
			if openDates[dateStr] {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("%d", day), fmt.Sprintf("date:%s", dateStr)))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData("·", "noop"))
			}
			day++
		}
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("✖️ Annuler", "cancel"),
	})

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// clockKeyboard lays HH:MM options out in rows of four.
func clockKeyboard(options []string, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	var currentRow []tgbotapi.InlineKeyboardButton
	for _, opt := range options {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(opt, prefix+opt))
		if len(currentRow) == 4 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("✖️ Annuler", "cancel"),
	})
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// slotListKeyboard attaches move and delete buttons per slot.
func slotListKeyboard(slots []model.Slot) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(slots))
	for _, s := range slots {
		label := fmt.Sprintf("%s %s-%s", s.Date(), s.StartClock(), s.End.Format(model.TimeLayout))
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+label, "mv:"+s.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "del:"+s.ID),
		})
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
