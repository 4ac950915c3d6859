package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"creneau/internal/api"
	"creneau/internal/bot"
	"creneau/internal/config"
	"creneau/internal/events"
	"creneau/internal/metrics"
	"creneau/internal/reminders"
	"creneau/internal/service"
	"creneau/internal/sheets"
	"creneau/internal/state"
	"creneau/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CRENEAU_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal().Msg("set telegram.bot_token in config")
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	st := state.New(rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed opening hours on first run: hours file if configured, the
	// club defaults otherwise.
	seedSettings := config.DefaultHoursSettings()
	if cfg.Hours.SeedPath != "" {
		if hcfg, err := config.LoadHoursConfig(cfg.Hours.SeedPath); err != nil {
			logger.Error().Err(err).Str("path", cfg.Hours.SeedPath).Msg("failed to load hours config")
		} else {
			seedSettings = hcfg.ToSettings()
		}
	}
	if seeded, err := db.SeedOpeningHoursIfEmpty(ctx, seedSettings); err != nil {
		logger.Fatal().Err(err).Msg("seed opening hours")
	} else if seeded {
		logger.Info().Msg("opening hours seeded")
	}

	bus := events.NewBus(&logger)
	svc := service.NewBookingService(db, bus, &logger)

	// Any calendar change invalidates the availability cache.
	invalidate := func(events.Event) error {
		return st.InvalidateAvailability(context.Background())
	}
	for _, typ := range []string{
		events.TypeSlotCreated, events.TypeSlotUpdated, events.TypeSlotDeleted,
		events.TypeTemplateApplied, events.TypeHoursChanged,
	} {
		bus.Subscribe(typ, invalidate)
	}

	// Hot reload of the hours file rewrites the stored configuration.
	if cfg.Hours.SeedPath != "" {
		if err := config.WatchHours(ctx, cfg.Hours.SeedPath, cfg.HoursWatchInterval(), func(updated *config.HoursConfig) {
			if updated == nil {
				return
			}
			if err := db.SaveOpeningHours(ctx, updated.ToSettings()); err != nil {
				logger.Error().Err(err).Msg("failed to reapply hours config")
				return
			}
			bus.Publish(events.Event{Type: events.TypeHoursChanged})
			logger.Info().Time("reloaded_at", time.Now()).Msg("hours config reloaded")
		}); err != nil {
			logger.Error().Err(err).Msg("hours watch failed")
		}
	}

	b, err := bot.New(cfg.Telegram.BotToken, db, svc, st, cfg.Admins, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot error")
	}

	// Mirror calendar changes to the spreadsheet when configured.
	if cfg.Sheets.Enabled {
		mirror, err := sheets.NewService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("sheets mirror disabled")
		} else {
			resync := func(events.Event) error {
				now := time.Now()
				slots, err := db.GetSlotsForMonth(ctx, now.Year(), now.Month())
				if err != nil {
					return err
				}
				return mirror.SyncMonth(ctx, now.Year(), now.Month(), slots)
			}
			for _, typ := range []string{
				events.TypeSlotCreated, events.TypeSlotUpdated, events.TypeSlotDeleted,
				events.TypeTemplateApplied,
			} {
				bus.Subscribe(typ, resync)
			}
		}
	}

	metrics.Register()

	if cfg.API.Enabled {
		addr := listenAddr(cfg.API.Port, 8080)
		apiServer := api.NewHTTPServer(addr, db, st, &logger, db, st)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("availability API failed")
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = apiServer.Shutdown(shutCtx)
		}()
	}

	if cfg.Backup.Enabled {
		backup := store.NewBackup(cfg.Database.Path, store.BackupConfig{
			Path:          cfg.Backup.Path,
			Interval:      cfg.BackupInterval(),
			RetentionDays: cfg.Backup.RetentionDays,
		}, &logger)
		go backup.Run(ctx)
	}

	if cfg.Reminders.Enabled {
		rem := reminders.NewService(reminders.Config{
			CheckInterval: cfg.ReminderCheckInterval(),
			SendRate:      rateLimit(cfg.Reminders.SendRatePerSecond),
			SendBurst:     cfg.Reminders.SendBurst,
		}, db, st, b, &logger)
		rem.Start()
		defer rem.Stop()
	}

	logger.Info().Msg("club bot started")
	b.Start(ctx)
}

func listenAddr(port, fallback int) string {
	if port == 0 {
		port = fallback
	}
	return fmt.Sprintf(":%d", port)
}

func rateLimit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return 0
	}
	return rate.Limit(perSecond)
}
