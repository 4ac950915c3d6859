package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"creneau/internal/model"
)

const slotsPerPage = 8

// handleMySlots lists the member's upcoming reservations with move and
// delete buttons, eight per page.
func (b *Bot) handleMySlots(ctx context.Context, chatID int64, user *model.User, page int) {
	all, err := b.db.GetUserSlots(ctx, user.ID)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	if len(all) == 0 {
		b.reply(chatID, "Vous n'avez aucun créneau. Utilisez /reserver.")
		return
	}

	pages := (len(all) + slotsPerPage - 1) / slotsPerPage
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	startIdx := page * slotsPerPage
	endIdx := startIdx + slotsPerPage
	if endIdx > len(all) {
		endIdx = len(all)
	}
	current := all[startIdx:endIdx]

	var message strings.Builder
	message.WriteString("📌 Vos créneaux\n")
	if pages > 1 {
		message.WriteString(fmt.Sprintf("Page %d sur %d\n", page+1, pages))
	}
	message.WriteString("\n✏️ pour déplacer, 🗑 pour supprimer.")

	keyboard := slotListKeyboard(current).InlineKeyboard

	var navButtons []tgbotapi.InlineKeyboardButton
	if page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData(
			"⬅️", fmt.Sprintf("page:%d", page-1)))
	}
	if page < pages-1 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData(
			"➡️", fmt.Sprintf("page:%d", page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}

	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
	_, _ = b.tg.Send(msg)
}
