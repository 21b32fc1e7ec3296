package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/storage/fs"
)

// OrphanSweeper removes attachment content that no file row refers to.
// Such files are left behind when a post-commit disk removal fails.
type OrphanSweeper struct {
	storage StoredNameLister
	media   MediaLister
	// grace protects uploads whose row has not been committed yet.
	grace time.Duration
	now   func() time.Time
}

type StoredNameLister interface {
	StoredNames(ctx context.Context) ([]string, error)
}

type MediaLister interface {
	List() ([]fs.Entry, error)
	Path(storedName string) string
	DeletePath(fullPath string) error
}

type SweepStats struct {
	Scanned        int
	Orphaned       int
	Deleted        int
	BytesReclaimed int64
	Errors         int
}

func NewOrphanSweeper(storage StoredNameLister, media MediaLister, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{storage: storage, media: media, grace: grace, now: time.Now}
}

// Run performs one sweep. Per-file failures are counted and logged; only a
// failure to list either side aborts the run.
func (s *OrphanSweeper) Run(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	names, err := s.storage.StoredNames(ctx)
	if err != nil {
		return stats, err
	}
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[filepath.Base(name)] = struct{}{}
	}

	entries, err := s.media.List()
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(entries)

	cutoff := s.now().Add(-s.grace)
	for _, entry := range entries {
		if _, ok := known[entry.Name]; ok {
			continue
		}
		if entry.ModTime.After(cutoff) {
			continue
		}
		stats.Orphaned++

		if err := s.media.DeletePath(s.media.Path(entry.Name)); err != nil {
			stats.Errors++
			logger.Log.Warn("failed to delete orphaned attachment", "stored_name", entry.Name, "error", err)
			continue
		}
		stats.Deleted++
		stats.BytesReclaimed += entry.Size
	}
	return stats, nil
}

// Start runs the sweeper every interval until ctx is cancelled.
func (s *OrphanSweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("orphan sweeper started", "interval", interval, "grace", s.grace)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runAndLog(ctx)
			case <-ctx.Done():
				logger.Log.Info("orphan sweeper stopped")
				return
			}
		}
	}()
}

func (s *OrphanSweeper) runAndLog(ctx context.Context) {
	stats, err := s.Run(ctx)
	if err != nil {
		logger.Log.Error("orphan sweep failed", "error", err)
		return
	}
	logger.Log.Info("orphan sweep completed",
		"scanned", stats.Scanned,
		"orphaned", stats.Orphaned,
		"deleted", stats.Deleted,
		"bytes_reclaimed", stats.BytesReclaimed,
		"errors", stats.Errors)
}
