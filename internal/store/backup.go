package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls the periodic SQLite file backup.
type BackupConfig struct {
	Path          string
	Interval      time.Duration
	RetentionDays int
}

// Backup copies the database file to a timestamped snapshot and prunes
// snapshots older than the retention window.
type Backup struct {
	dbPath string
	cfg    BackupConfig
	logger *zerolog.Logger
}

func NewBackup(dbPath string, cfg BackupConfig, logger *zerolog.Logger) *Backup {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Backup{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run takes an immediate snapshot and then one per interval until the
// context is cancelled.
func (b *Backup) Run(ctx context.Context) {
	b.logger.Info().Str("path", b.cfg.Path).Dur("interval", b.cfg.Interval).Msg("backup started")

	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot writes one timestamped copy of the database file.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.cfg.Path, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("creneau_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(b.cfg.Path, name)

	source, err := os.Open(b.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	b.logger.Info().Str("file", name).Msg("backup written")
	return nil
}

func (b *Backup) prune() {
	if b.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(b.cfg.Path)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -b.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			os.Remove(filepath.Join(b.cfg.Path, file.Name()))
		}
	}
}
