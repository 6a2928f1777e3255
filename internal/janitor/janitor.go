package janitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepSchedule = "@every 1h"

// Janitor periodically removes stale files from the download directory.
// Per-request cleanup is best-effort, so partial files from failed
// acquisitions would otherwise accumulate.
type Janitor struct {
	logger *slog.Logger
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
}

func New(log *slog.Logger, dir string, maxAge time.Duration) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Janitor{
		logger: log.With(slog.String("service", "janitor")),
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(),
	}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(sweepSchedule, j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.logger.Warn("sweep failed", slog.Any("error", err))
		}
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Warn("could not remove stale file",
				slog.String("path", path),
				slog.Any("error", err))
			continue
		}
		j.logger.Info("removed stale file", slog.String("path", path))
	}
}
