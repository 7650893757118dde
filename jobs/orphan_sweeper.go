// Package jobs runs the periodic reconciliation between the metadata
// store and the blob repository.
package jobs

import (
	"CourseShelf/models"
	"CourseShelf/services"
	"CourseShelf/storage"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// OrphanSweeper deletes blobs no content item references anymore. A
// grace window keeps it from reaping a blob that was just uploaded and
// is still waiting for its metadata row to commit.
type OrphanSweeper struct {
	content  *services.ContentService
	blobs    storage.Storage
	interval time.Duration
	grace    time.Duration
}

// NewOrphanSweeper creates a sweeper with the given cadence and grace
// window.
func NewOrphanSweeper(content *services.ContentService, blobs storage.Storage, interval, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		content:  content,
		blobs:    blobs,
		interval: interval,
		grace:    grace,
	}
}

// Run sweeps on a ticker until ctx is cancelled.
func (s *OrphanSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single reconciliation pass. Failures are logged;
// the next pass retries.
func (s *OrphanSweeper) SweepOnce(ctx context.Context) {
	items, err := s.content.ListAll(ctx)
	if err != nil {
		logrus.Error("Orphan sweep: failed to list content: ", err)
		return
	}
	referenced := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Type == models.ContentTypeFile && item.FilePath != nil {
			referenced[*item.FilePath] = true
		}
	}

	blobs, err := s.blobs.List()
	if err != nil {
		logrus.Error("Orphan sweep: failed to list blobs: ", err)
		return
	}

	removed := 0
	for _, blob := range blobs {
		if referenced[blob.Name] {
			continue
		}
		if time.Since(blob.ModTime) < s.grace {
			continue
		}
		if err := s.blobs.Delete(blob.Name); err != nil {
			logrus.WithFields(logrus.Fields{
				"blob":  blob.Name,
				"error": err,
			}).Warn("Orphan sweep: failed to delete blob")
			continue
		}
		removed++
	}
	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed": removed,
			"total":   len(blobs),
		}).Info("Orphan sweep completed")
	}
}
