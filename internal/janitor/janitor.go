// Package janitor periodically sweeps stranded files out of the downloads
// directory. The relay removes its own files after upload; the janitor only
// catches what a crash or kill left behind.
package janitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor runs the sweep on a cron schedule.
type Janitor struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a janitor for dir removing entries older than maxAge on the
// given cron spec (e.g. "@every 5m").
func New(log *slog.Logger, dir string, maxAge time.Duration, spec string) (*Janitor, error) {
	if log == nil {
		log = slog.Default()
	}
	j := &Janitor{
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(),
		logger: log.With(slog.String("service", "janitor")),
	}
	if _, err := j.cron.AddFunc(spec, j.Sweep); err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins the schedule.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep removes download entries whose modification time is older than the
// configured age.
func (j *Janitor) Sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.logger.Warn("read downloads dir failed", slog.Any("error", err))
		}
		return
	}
	cutoff := time.Now().Add(-j.maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			j.logger.Warn("remove stale download failed", slog.String("path", path), slog.Any("error", err))
			continue
		}
		j.logger.Info("removed stale download", slog.String("path", path))
	}
}
