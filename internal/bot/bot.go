// Package bot is the Telegram front of the club calendar: booking
// dialogs, slot management, template application and the admin tools.
package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"creneau/internal/booking"
	"creneau/internal/export"
	"creneau/internal/hours"
	"creneau/internal/model"
	"creneau/internal/service"
	"creneau/internal/slots"
	"creneau/internal/state"
	"creneau/internal/store"
	"creneau/internal/template"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	SelfUser() tgbotapi.User
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

func (c *realTelegramClient) Request(msg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.api.Request(msg)
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

func (c *realTelegramClient) SelfUser() tgbotapi.User {
	return c.api.Self
}

type bookingStep string

const (
	stepNone      bookingStep = "none"
	stepDate      bookingStep = "date"
	stepStart     bookingStep = "start"
	stepEnd       bookingStep = "end"
	stepConfirm   bookingStep = "confirm"
	stepMoveStart bookingStep = "move_start"
	stepMoveEnd   bookingStep = "move_end"
)

// dialog is the member's in-flight booking draft, kept in Redis.
type dialog struct {
	Step   bookingStep `json:"step"`
	Date   string      `json:"date"`  // YYYY-MM-DD
	Start  string      `json:"start"` // HH:MM
	End    string      `json:"end"`   // HH:MM
	SlotID string      `json:"slot_id,omitempty"` // set when moving an existing slot
}

// Bot is the Telegram front end.
type Bot struct {
	tg      telegramClient
	db      *store.DB
	svc     *service.BookingService
	dialogs *state.Store
	admins  map[int64]struct{}
	logger  *zerolog.Logger
}

func New(token string, db *store.DB, svc *service.BookingService, dialogs *state.Store, admins []int64, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(&realTelegramClient{api: api}, db, svc, dialogs, admins, logger)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, db *store.DB, svc *service.BookingService, dialogs *state.Store, admins []int64, logger *zerolog.Logger) (*Bot, error) {
	return newBot(tg, db, svc, dialogs, admins, logger)
}

func newBot(tg telegramClient, db *store.DB, svc *service.BookingService, dialogs *state.Store, admins []int64, logger *zerolog.Logger) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	adm := make(map[int64]struct{})
	for _, id := range admins {
		adm[id] = struct{}{}
	}
	return &Bot{
		tg:      tg,
		db:      db,
		svc:     svc,
		dialogs: dialogs,
		admins:  adm,
		logger:  logger,
	}, nil
}

var memberMenu = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("📅 Réserver"),
		tgbotapi.NewKeyboardButton("📌 Mes créneaux"),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("📋 Mon modèle"),
		tgbotapi.NewKeyboardButton("ℹ️ Aide"),
	),
)

// Start polls updates until the context ends.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.tg.SelfUser().UserName).Msg("club bot authorized")

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			requestID := uuid.New().String()
			l := b.logger.With().Str("request_id", requestID).Logger()
			updateCtx := l.WithContext(ctx)
			b.handleUpdate(updateCtx, &update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	if update.CallbackQuery != nil {
		l.Debug().
			Int64("user_id", update.CallbackQuery.From.ID).
			Str("data", update.CallbackQuery.Data).
			Msg("handling callback query")
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		l.Debug().
			Int64("user_id", update.Message.From.ID).
			Str("text", update.Message.Text).
			Msg("handling message")
		b.handleMessage(ctx, update.Message)
		return
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)

	user, err := b.registerUser(ctx, msg.From)
	if err != nil {
		b.logger.Error().Err(err).Int64("telegram_id", msg.From.ID).Msg("register user")
		b.reply(msg.Chat.ID, "Erreur interne, réessayez plus tard.")
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		_ = b.dialogs.ResetDialog(ctx, msg.From.ID)
		b.sendMainMenu(msg.Chat.ID, user)
	case text == "📅 Réserver" || strings.HasPrefix(text, "/reserver"):
		b.startBookingFlow(ctx, msg.Chat.ID, msg.From.ID, time.Now())
	case text == "📌 Mes créneaux" || strings.HasPrefix(text, "/mescreneaux"):
		b.handleMySlots(ctx, msg.Chat.ID, user, 0)
	case text == "📋 Mon modèle":
		b.showTemplate(ctx, msg.Chat.ID, user)
	case strings.HasPrefix(text, "/modele"):
		b.handleTemplateCommand(ctx, msg.Chat.ID, user, strings.TrimSpace(strings.TrimPrefix(text, "/modele")))
	case strings.HasPrefix(text, "/appliquer"):
		b.handleApplyTemplate(ctx, msg.Chat.ID, user)
	case strings.HasPrefix(text, "/quota"):
		b.handleQuota(ctx, msg.Chat.ID, user)
	case strings.HasPrefix(text, "/evenements"):
		b.handleListEvents(ctx, msg.Chat.ID)
	case strings.HasPrefix(text, "/evenement") && user.IsAdmin():
		b.handleCreateEvent(ctx, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/evenement")))
	case strings.HasPrefix(text, "/export") && user.IsAdmin():
		b.handleExport(ctx, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/export")))
	case strings.HasPrefix(text, "/reglages") && user.IsAdmin():
		b.handleSettings(ctx, msg.Chat.ID, user, strings.Fields(strings.TrimPrefix(text, "/reglages")))
	case text == "ℹ️ Aide" || strings.HasPrefix(text, "/help"):
		b.reply(msg.Chat.ID, helpText(user.IsAdmin()))
	case strings.HasPrefix(text, "/annuler"):
		_ = b.dialogs.ResetDialog(ctx, msg.From.ID)
		b.reply(msg.Chat.ID, "Opération annulée.")
		b.sendMainMenu(msg.Chat.ID, user)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.Message == nil {
		return
	}
	data := cq.Data
	_ = b.answerCallback(cq.ID)
	if data == "noop" {
		return
	}

	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	user, err := b.registerUser(ctx, cq.From)
	if err != nil {
		b.logger.Error().Err(err).Int64("telegram_id", userID).Msg("register user")
		return
	}

	switch {
	case strings.HasPrefix(data, "cal:"):
		b.handleCalendarNav(ctx, chatID, userID, strings.TrimPrefix(data, "cal:"))
	case strings.HasPrefix(data, "date:"):
		b.handleDateChosen(ctx, chatID, userID, strings.TrimPrefix(data, "date:"))
	case strings.HasPrefix(data, "start:"):
		b.handleStartChosen(ctx, chatID, userID, strings.TrimPrefix(data, "start:"))
	case strings.HasPrefix(data, "end:"):
		b.handleEndChosen(ctx, chatID, userID, strings.TrimPrefix(data, "end:"))
	case data == "confirm":
		b.handleConfirm(ctx, chatID, userID, user)
	case data == "cancel":
		_ = b.dialogs.ResetDialog(ctx, userID)
		b.reply(chatID, "Réservation annulée.")
	case strings.HasPrefix(data, "del:"):
		b.handleDelete(ctx, chatID, user, strings.TrimPrefix(data, "del:"))
	case strings.HasPrefix(data, "mv:"):
		b.handleMoveRequested(ctx, chatID, userID, user, strings.TrimPrefix(data, "mv:"))
	case strings.HasPrefix(data, "mvstart:"):
		b.handleMoveStartChosen(ctx, chatID, userID, strings.TrimPrefix(data, "mvstart:"))
	case strings.HasPrefix(data, "mvend:"):
		b.handleMoveEndChosen(ctx, chatID, userID, user, strings.TrimPrefix(data, "mvend:"))
	case strings.HasPrefix(data, "page:"):
		if page, err := strconv.Atoi(strings.TrimPrefix(data, "page:")); err == nil {
			b.handleMySlots(ctx, chatID, user, page)
		}
	}
}

// registerUser upserts the member profile; listed admins get the role.
func (b *Bot) registerUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	role := model.RoleUser
	if _, ok := b.admins[from.ID]; ok {
		role = model.RoleAdmin
	}
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	return b.db.CreateOrUpdateUser(ctx, from.ID, name, role)
}

func (b *Bot) sendMainMenu(chatID int64, user *model.User) {
	text := fmt.Sprintf("Bonjour %s ! Que souhaitez-vous faire ?", user.Name)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = memberMenu
	_, _ = b.tg.Send(msg)
}

func (b *Bot) startBookingFlow(ctx context.Context, chatID, userID int64, ref time.Time) {
	_ = b.dialogs.SaveDialog(ctx, userID, dialog{Step: stepDate})
	b.sendCalendar(ctx, chatID, ref.Year(), ref.Month())
}

func (b *Bot) sendCalendar(ctx context.Context, chatID int64, year int, month time.Month) {
	settings, err := b.db.GetOpeningHours(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("load opening hours")
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}

	openDates := make(map[string]bool)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	for date := first; date.Month() == month; date = date.AddDate(0, 0, 1) {
		if hours.Resolve(date, settings).IsOpen() {
			openDates[date.Format(model.DateLayout)] = true
		}
	}

	msg := tgbotapi.NewMessage(chatID, "Choisissez une date :")
	msg.ReplyMarkup = monthCalendarKeyboard(year, month, openDates)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleCalendarNav(ctx context.Context, chatID, userID int64, ym string) {
	ref, err := time.ParseInLocation("2006-01", ym, time.Local)
	if err != nil {
		return
	}
	b.sendCalendar(ctx, chatID, ref.Year(), ref.Month())
}

func (b *Bot) handleDateChosen(ctx context.Context, chatID, userID int64, date string) {
	day, err := b.resolveDate(ctx, date)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	options := slots.StartOptions(day)
	if len(options) == 0 {
		b.reply(chatID, "Le club est fermé ce jour-là.")
		return
	}

	_ = b.dialogs.SaveDialog(ctx, userID, dialog{Step: stepStart, Date: date})
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s — heure de début :", date))
	msg.ReplyMarkup = clockKeyboard(options, "start:")
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleStartChosen(ctx context.Context, chatID, userID int64, start string) {
	var d dialog
	found, err := b.dialogs.LoadDialog(ctx, userID, &d)
	if err != nil || !found || d.Step != stepStart {
		b.reply(chatID, "Session expirée, relancez la réservation.")
		return
	}

	day, err := b.resolveDate(ctx, d.Date)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	options := slots.EndOptions(day, start)
	if len(options) == 0 {
		b.reply(chatID, "Aucune heure de fin possible pour ce début.")
		return
	}

	d.Step = stepEnd
	d.Start = start
	_ = b.dialogs.SaveDialog(ctx, userID, d)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s %s — heure de fin :", d.Date, start))
	msg.ReplyMarkup = clockKeyboard(options, "end:")
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleEndChosen(ctx context.Context, chatID, userID int64, end string) {
	var d dialog
	found, err := b.dialogs.LoadDialog(ctx, userID, &d)
	if err != nil || !found || d.Step != stepEnd {
		b.reply(chatID, "Session expirée, relancez la réservation.")
		return
	}

	d.Step = stepConfirm
	d.End = end
	_ = b.dialogs.SaveDialog(ctx, userID, d)

	text := fmt.Sprintf("Confirmer le créneau du %s de %s à %s ?", d.Date, d.Start, d.End)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirmer", "confirm"),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Annuler", "cancel"),
		),
	)
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleConfirm(ctx context.Context, chatID, userID int64, user *model.User) {
	var d dialog
	found, err := b.dialogs.LoadDialog(ctx, userID, &d)
	if err != nil || !found || d.Step != stepConfirm {
		b.reply(chatID, "Session expirée, relancez la réservation.")
		return
	}

	start, err1 := combineDateClock(d.Date, d.Start)
	end, err2 := combineDateClock(d.Date, d.End)
	if err1 != nil || err2 != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}

	slot, err := b.svc.CreateSlot(ctx, user, start, end)
	if err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}
	_ = b.dialogs.ResetDialog(ctx, userID)
	b.reply(chatID, fmt.Sprintf("✅ Créneau réservé : %s de %s à %s.",
		slot.Date(), slot.StartClock(), slot.End.Format(model.TimeLayout)))
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, user *model.User, slotID string) {
	if err := b.svc.DeleteSlot(ctx, user, slotID); err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}
	b.reply(chatID, "🗑 Créneau supprimé.")
}

func (b *Bot) handleMoveRequested(ctx context.Context, chatID, userID int64, user *model.User, slotID string) {
	slot, err := b.db.GetSlot(ctx, slotID)
	if err != nil {
		b.reply(chatID, "Créneau introuvable.")
		return
	}
	if slot.UserID != user.ID {
		b.reply(chatID, bookingErrorText(booking.ErrNotSlotOwner))
		return
	}

	day, err := b.resolveDate(ctx, slot.Date())
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	options := slots.StartOptions(day)
	if len(options) == 0 {
		b.reply(chatID, "Le club est fermé ce jour-là.")
		return
	}

	_ = b.dialogs.SaveDialog(ctx, userID, dialog{Step: stepMoveStart, Date: slot.Date(), SlotID: slotID})
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s — nouvelle heure de début :", slot.Date()))
	msg.ReplyMarkup = clockKeyboard(options, "mvstart:")
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleMoveStartChosen(ctx context.Context, chatID, userID int64, start string) {
	var d dialog
	found, err := b.dialogs.LoadDialog(ctx, userID, &d)
	if err != nil || !found || d.Step != stepMoveStart {
		b.reply(chatID, "Session expirée, relancez depuis Mes créneaux.")
		return
	}

	day, err := b.resolveDate(ctx, d.Date)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	options := slots.EndOptions(day, start)
	if len(options) == 0 {
		b.reply(chatID, "Aucune heure de fin possible pour ce début.")
		return
	}

	d.Step = stepMoveEnd
	d.Start = start
	_ = b.dialogs.SaveDialog(ctx, userID, d)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s %s — nouvelle heure de fin :", d.Date, start))
	msg.ReplyMarkup = clockKeyboard(options, "mvend:")
	_, _ = b.tg.Send(msg)
}

func (b *Bot) handleMoveEndChosen(ctx context.Context, chatID, userID int64, user *model.User, end string) {
	var d dialog
	found, err := b.dialogs.LoadDialog(ctx, userID, &d)
	if err != nil || !found || d.Step != stepMoveEnd {
		b.reply(chatID, "Session expirée, relancez depuis Mes créneaux.")
		return
	}

	start, err1 := combineDateClock(d.Date, d.Start)
	endTime, err2 := combineDateClock(d.Date, end)
	if err1 != nil || err2 != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}

	if err := b.svc.UpdateSlot(ctx, user, d.SlotID, start, endTime); err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}
	_ = b.dialogs.ResetDialog(ctx, userID)
	b.reply(chatID, fmt.Sprintf("✏️ Créneau déplacé : %s de %s à %s.", d.Date, d.Start, end))
}

func (b *Bot) showTemplate(ctx context.Context, chatID int64, user *model.User) {
	tpl, err := b.db.GetTemplate(ctx, user.ID)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	var sb strings.Builder
	sb.WriteString(formatTemplate(tpl))
	sb.WriteString("\n\nPour modifier : /modele lun 18:00-20:00 mer 09:00-10:30")
	sb.WriteString("\nPour effacer : /modele effacer")
	sb.WriteString("\nPour appliquer au mois prochain : /appliquer")
	b.reply(chatID, sb.String())
}

func (b *Bot) handleTemplateCommand(ctx context.Context, chatID int64, user *model.User, args string) {
	if args == "" {
		b.showTemplate(ctx, chatID, user)
		return
	}
	if strings.EqualFold(args, "effacer") {
		if err := b.svc.SaveTemplate(ctx, user, nil); err != nil {
			b.reply(chatID, "Erreur interne, réessayez plus tard.")
			return
		}
		b.reply(chatID, "Modèle effacé.")
		return
	}

	tpl, err := parseTemplateSpec(args)
	if err != nil {
		b.reply(chatID, "Format invalide. Exemple : /modele lun 18:00-20:00 mer 09:00-10:30")
		return
	}
	if err := b.svc.SaveTemplate(ctx, user, tpl); err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}
	b.reply(chatID, "Modèle enregistré :\n"+formatTemplate(tpl))
}

func (b *Bot) handleApplyTemplate(ctx context.Context, chatID int64, user *model.User) {
	year, month := template.NextMonth(time.Now())
	result, err := b.svc.ApplyTemplate(ctx, user, year, month)
	if err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Modèle appliqué à %s %d :\n", frenchMonths[int(month)], year))
	sb.WriteString(fmt.Sprintf("• %d créneau(x) créé(s)\n", len(result.ToCreate)))
	if len(result.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("• %d ignoré(s) :\n", len(result.Skipped)))
		for _, skip := range result.Skipped {
			sb.WriteString("  – " + skip.String() + "\n")
		}
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleQuota(ctx context.Context, chatID int64, user *model.User) {
	now := time.Now()
	count, met, err := b.svc.QuotaStatus(ctx, user, now.Year(), now.Month())
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	status := "❌ quota non atteint"
	if met {
		status = "✅ quota atteint"
	}
	b.reply(chatID, fmt.Sprintf("%s %d : %d créneau(x), %s.",
		frenchMonths[int(now.Month())], now.Year(), count, status))
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, arg string) {
	year, month := time.Now().Year(), time.Now().Month()
	if arg != "" {
		ref, err := time.ParseInLocation("2006-01", arg, time.Local)
		if err != nil {
			b.reply(chatID, "Format invalide. Exemple : /export 2025-12")
			return
		}
		year, month = ref.Year(), ref.Month()
	}

	slots, err := b.db.GetSlotsForMonth(ctx, year, month)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	clubEvents, err := b.db.GetEventsForRange(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	users, err := b.db.GetAllUsers(ctx)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	settings, err := b.db.GetSettings(ctx)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonth(&buf, year, month, slots, clubEvents, users, settings); err != nil {
		b.logger.Error().Err(err).Msg("export month")
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}

	name := fmt.Sprintf("calendrier-%04d-%02d.xlsx", year, int(month))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	_, _ = b.tg.Send(doc)
}

func (b *Bot) handleSettings(ctx context.Context, chatID int64, user *model.User, args []string) {
	if len(args) != 2 {
		settings, err := b.db.GetSettings(ctx)
		if err != nil {
			b.reply(chatID, "Erreur interne, réessayez plus tard.")
			return
		}
		b.reply(chatID, fmt.Sprintf(
			"Rappel à partir du jour %d, minimum %d créneau(x) par mois.\nModifier : /reglages <jour> <minimum>",
			settings.ReminderStartDay, settings.MinSlotsRequired))
		return
	}

	day, err1 := strconv.Atoi(args[0])
	minSlots, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		b.reply(chatID, "Format invalide. Exemple : /reglages 20 2")
		return
	}
	saved, err := b.svc.UpdateSettings(ctx, user, model.Settings{ReminderStartDay: day, MinSlotsRequired: minSlots})
	if err != nil {
		b.reply(chatID, bookingErrorText(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Réglages enregistrés : jour %d, minimum %d.",
		saved.ReminderStartDay, saved.MinSlotsRequired))
}

func (b *Bot) handleListEvents(ctx context.Context, chatID int64) {
	now := time.Now()
	clubEvents, err := b.db.GetEventsForRange(ctx, now, now.AddDate(0, 2, 0))
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	if len(clubEvents) == 0 {
		b.reply(chatID, "Aucun événement à venir.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📣 Événements à venir :\n")
	for _, e := range clubEvents {
		if e.AllDay {
			fmt.Fprintf(&sb, "• %s — %s (toute la journée)\n", e.Start.Format(model.DateLayout), e.Title)
			continue
		}
		fmt.Fprintf(&sb, "• %s %s-%s — %s\n",
			e.Start.Format(model.DateLayout), e.Start.Format(model.TimeLayout), e.End.Format(model.TimeLayout), e.Title)
	}
	b.reply(chatID, sb.String())
}

// /evenement 2026-01-15 19:00-22:00 Tournoi interne
// /evenement 2026-01-15 jour Fermeture annuelle
func (b *Bot) handleCreateEvent(ctx context.Context, chatID int64, arg string) {
	parts := strings.SplitN(arg, " ", 3)
	if len(parts) != 3 {
		b.reply(chatID, "Format : /evenement <date> <HH:MM-HH:MM|jour> <titre>")
		return
	}
	date, spec, title := parts[0], parts[1], strings.TrimSpace(parts[2])

	day, err := time.ParseInLocation(model.DateLayout, date, time.Local)
	if err != nil {
		b.reply(chatID, "Date invalide. Exemple : /evenement 2026-01-15 19:00-22:00 Tournoi")
		return
	}

	var start, end time.Time
	allDay := spec == "jour"
	if allDay {
		start, end = day, day
	} else {
		clocks := strings.SplitN(spec, "-", 2)
		if len(clocks) != 2 || !validClock(clocks[0]) || !validClock(clocks[1]) || clocks[0] >= clocks[1] {
			b.reply(chatID, "Horaire invalide. Exemple : 19:00-22:00 ou \"jour\"")
			return
		}
		start, _ = combineDateClock(date, clocks[0])
		end, _ = combineDateClock(date, clocks[1])
	}

	e, err := b.db.CreateEvent(ctx, title, start, end, allDay)
	if err != nil {
		b.reply(chatID, "Erreur interne, réessayez plus tard.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Événement « %s » ajouté le %s.", e.Title, e.Start.Format(model.DateLayout)))
}

func (b *Bot) resolveDate(ctx context.Context, date string) (hours.ResolvedDay, error) {
	settings, err := b.db.GetOpeningHours(ctx)
	if err != nil {
		return hours.ResolvedDay{}, err
	}
	day, err := time.ParseInLocation(model.DateLayout, date, time.Local)
	if err != nil {
		return hours.ResolvedDay{}, err
	}
	return hours.Resolve(day, settings), nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) answerCallback(id string) error {
	_, err := b.tg.Request(tgbotapi.NewCallback(id, ""))
	return err
}

func combineDateClock(date, clock string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, date+" "+clock, time.Local)
}

func bookingErrorText(err error) string {
	switch {
	case errors.Is(err, booking.ErrOutsideOpeningHours):
		return "⛔ Ce créneau est en dehors des horaires d'ouverture."
	case errors.Is(err, booking.ErrInvalidOrdering):
		return "⛔ L'heure de fin doit être après l'heure de début."
	case errors.Is(err, booking.ErrNotAuthenticated):
		return "⛔ Vous devez d'abord lancer /start."
	case errors.Is(err, booking.ErrNotSlotOwner):
		return "⛔ Ce créneau ne vous appartient pas."
	default:
		return "Erreur interne, réessayez plus tard."
	}
}

var frenchDayNames = map[string]int{
	"dim": 0, "lun": 1, "mar": 2, "mer": 3, "jeu": 4, "ven": 5, "sam": 6,
}

var frenchDayLabels = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// parseTemplateSpec reads "lun 18:00-20:00 mer 09:00-10:30" into a
// weekly template. A day may appear several times.
func parseTemplateSpec(spec string) (model.WeeklyTemplate, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("expected day/range pairs")
	}

	var tpl model.WeeklyTemplate
	for i := 0; i < len(fields); i += 2 {
		day, ok := frenchDayNames[strings.ToLower(fields[i])]
		if !ok {
			return nil, fmt.Errorf("unknown day %q", fields[i])
		}
		parts := strings.SplitN(fields[i+1], "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad time range %q", fields[i+1])
		}
		start, end := parts[0], parts[1]
		if !validClock(start) || !validClock(end) {
			return nil, fmt.Errorf("bad time range %q", fields[i+1])
		}
		if start >= end {
			return nil, fmt.Errorf("start %s not before end %s", start, end)
		}
		tpl = append(tpl, model.TemplateDay{DayOfWeek: day, StartTime: start, EndTime: end})
	}
	return tpl, nil
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(model.TimeLayout, s)
	return err == nil
}

func formatTemplate(tpl model.WeeklyTemplate) string {
	if len(tpl) == 0 {
		return "Aucun modèle enregistré."
	}
	var sb strings.Builder
	sb.WriteString("Votre modèle hebdomadaire :")
	for _, d := range tpl {
		sb.WriteString(fmt.Sprintf("\n• %s %s-%s", frenchDayLabels[d.DayOfWeek], d.StartTime, d.EndTime))
	}
	return sb.String()
}

func helpText(admin bool) string {
	var sb strings.Builder
	sb.WriteString("Commandes :\n")
	sb.WriteString("/reserver — réserver un créneau\n")
	sb.WriteString("/mescreneaux — voir et supprimer vos créneaux\n")
	sb.WriteString("/modele — gérer votre modèle hebdomadaire\n")
	sb.WriteString("/appliquer — appliquer le modèle au mois prochain\n")
	sb.WriteString("/quota — votre avancement du mois\n")
	sb.WriteString("/evenements — événements du club à venir\n")
	sb.WriteString("/annuler — abandonner l'opération en cours")
	if admin {
		sb.WriteString("\n\nAdministration :\n")
		sb.WriteString("/export [AAAA-MM] — exporter le calendrier en Excel\n")
		sb.WriteString("/evenement <date> <horaire> <titre> — publier un événement\n")
		sb.WriteString("/reglages <jour> <minimum> — régler les rappels de quota")
	}
	return sb.String()
}
