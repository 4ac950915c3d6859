package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"creneau/internal/model"
)

// SendQuotaReminder delivers the monthly quota nudge. Implements the
// reminders service notifier.
func (b *Bot) SendQuotaReminder(ctx context.Context, user model.User, year int, month time.Month, missing int) error {
	text := fmt.Sprintf(
		"👋 %s, il vous manque %d créneau(x) pour %s %d.\nUtilisez /reserver ou /appliquer pour compléter votre mois.",
		user.Name, missing, frenchMonths[int(month)], year)
	msg := tgbotapi.NewMessage(user.TelegramID, text)
	if _, err := b.tg.Send(msg); err != nil {
		return fmt.Errorf("send reminder to %d: %w", user.TelegramID, err)
	}
	return nil
}
