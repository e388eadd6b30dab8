// Package repo implements the history persistence layer. This file provides
// thin GORM functions for the history table; SQLStore adapts them to the
// store handle consumed by the service layer.
//
// Error semantics:
//   - A delete that matches nothing is not an error; callers inspect the
//     returned count.
//   - DB errors (connectivity, missing table, ...) are returned raw.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

// CreateHistory inserts one history row.
func CreateHistory(ctx context.Context, db *gorm.DB, rec *domain.HistoryRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

// ListHistory returns every history row, most recent first. Rows sharing a
// timestamp are ordered by id descending, which follows insertion order for
// ObjectIDs minted by one process.
func ListHistory(ctx context.Context, db *gorm.DB) ([]domain.HistoryRecord, error) {
	out := []domain.HistoryRecord{}
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// DeleteHistory removes the row with the given id and returns the number of
// rows removed (0 or 1).
func DeleteHistory(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.HistoryRecord{})
	return res.RowsAffected, res.Error
}

// DeleteAllHistory removes every row and returns how many were removed.
func DeleteAllHistory(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.HistoryRecord{})
	return res.RowsAffected, res.Error
}

// CountHistory uses a raw COUNT so a missing table surfaces as an error.
func CountHistory(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM history").Scan(&total).Error
	return total, err
}
