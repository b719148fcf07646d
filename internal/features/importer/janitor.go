package importer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"estate-crm/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor purges finished import jobs and archived upload files past the
// configured retention so neither the jobs collection nor the upload
// directory grows unbounded.
type Janitor struct {
	jobs      ImportJobRepository
	ttlDays   int
	uploadDir string
	log       *zap.Logger
	cron      *cron.Cron
}

func NewJanitor(jobs ImportJobRepository, cfg *config.Config, log *zap.Logger) *Janitor {
	return &Janitor{
		jobs:      jobs,
		ttlDays:   cfg.JobTTLDays,
		uploadDir: cfg.UploadPath,
		log:       log,
		cron:      cron.New(),
	}
}

// Start schedules the nightly purge. Safe to call once.
func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc("@daily", j.purge)
	if err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.ttlDays)
	deleted, err := j.jobs.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		j.log.Error("import job purge failed", zap.Error(err))
	} else if deleted > 0 {
		j.log.Info("purged stale import jobs", zap.Int64("deleted", deleted))
	}

	j.purgeFiles(cutoff)
}

// purgeFiles removes archived sheets older than the cutoff. The archive
// exists to audit jobs, so it follows the same retention as the jobs.
func (j *Janitor) purgeFiles(cutoff time.Time) {
	entries, err := os.ReadDir(j.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.log.Error("reading upload directory failed", zap.Error(err))
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.uploadDir, entry.Name())); err != nil {
			j.log.Warn("removing archived upload failed",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		j.log.Info("purged archived uploads", zap.Int("removed", removed))
	}
}
