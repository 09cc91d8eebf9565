package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-buzz/internal/logger"
)

// Writer persists daily snapshots. Policy on a duplicate date: overwrite.
// Re-running the pipeline for a date the store already holds replaces the
// snapshot row in place (upsert on the date key) and rewrites its child
// collections; the run is never skipped.
type Writer struct {
	db *gorm.DB
}

// NewWriter creates a snapshot writer on top of an open database handle
func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// Write upserts the snapshot keyed by date, then replaces its news and
// rating rows. Child writes are best-effort: a failure there is logged and
// the snapshot row stays committed.
func (w *Writer) Write(ctx context.Context, snapshot *DailySnapshot, news []NewsItem, ratings []AnalystRating) error {
	if snapshot.Date == "" {
		return fmt.Errorf("snapshot date cannot be empty")
	}

	err := w.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			UpdateAll: true,
		}).
		Omit("News", "Ratings").
		Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for %s: %w", snapshot.Date, err)
	}

	// The conflict path does not report the surviving row id; fetch it by key
	var persisted DailySnapshot
	if err := w.db.WithContext(ctx).Where("date = ?", snapshot.Date).First(&persisted).Error; err != nil {
		return fmt.Errorf("failed to read back snapshot for %s: %w", snapshot.Date, err)
	}
	snapshot.ID = persisted.ID

	w.replaceNews(ctx, persisted.ID, news)
	w.replaceRatings(ctx, persisted.ID, ratings)

	return nil
}

func (w *Writer) replaceNews(ctx context.Context, snapshotID uint, news []NewsItem) {
	if err := w.db.WithContext(ctx).Where("snapshot_id = ?", snapshotID).Delete(&NewsItem{}).Error; err != nil {
		logger.Warn(ctx, "Failed to clear old news rows", "snapshot_id", snapshotID, "error", err)
		return
	}
	if len(news) == 0 {
		return
	}
	for i := range news {
		news[i].ID = 0
		news[i].SnapshotID = snapshotID
	}
	if err := w.db.WithContext(ctx).Create(&news).Error; err != nil {
		logger.Warn(ctx, "Failed to insert news rows", "snapshot_id", snapshotID, "count", len(news), "error", err)
	}
}

func (w *Writer) replaceRatings(ctx context.Context, snapshotID uint, ratings []AnalystRating) {
	if err := w.db.WithContext(ctx).Where("snapshot_id = ?", snapshotID).Delete(&AnalystRating{}).Error; err != nil {
		logger.Warn(ctx, "Failed to clear old rating rows", "snapshot_id", snapshotID, "error", err)
		return
	}
	if len(ratings) == 0 {
		return
	}
	for i := range ratings {
		ratings[i].ID = 0
		ratings[i].SnapshotID = snapshotID
	}
	if err := w.db.WithContext(ctx).Create(&ratings).Error; err != nil {
		logger.Warn(ctx, "Failed to insert rating rows", "snapshot_id", snapshotID, "count", len(ratings), "error", err)
	}
}

// Latest returns the most recent snapshot with its child collections
func (w *Writer) Latest(ctx context.Context) (*DailySnapshot, error) {
	var snapshot DailySnapshot
	err := w.db.WithContext(ctx).
		Preload("News").
		Preload("Ratings").
		Order("date DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// ByDate returns the snapshot for one calendar date with its child collections
func (w *Writer) ByDate(ctx context.Context, date string) (*DailySnapshot, error) {
	var snapshot DailySnapshot
	err := w.db.WithContext(ctx).
		Preload("News").
		Preload("Ratings").
		Where("date = ?", date).
		First(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", date, err)
	}
	return &snapshot, nil
}
