package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

// SQLStore is the GORM-backed history store handle. It owns the *gorm.DB for
// the lifetime of the process; Close releases the underlying pool.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore opens the SQLite database at path and ensures the schema.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return &SQLStore{DB: db}, nil
}

// Insert proxies CreateHistory.
func (s *SQLStore) Insert(ctx context.Context, rec domain.HistoryRecord) error {
	return CreateHistory(ctx, s.DB, &rec)
}

// List proxies ListHistory.
func (s *SQLStore) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	return ListHistory(ctx, s.DB)
}

// Delete proxies DeleteHistory.
func (s *SQLStore) Delete(ctx context.Context, id string) (int64, error) {
	return DeleteHistory(ctx, s.DB, id)
}

// DeleteAll proxies DeleteAllHistory.
func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	return DeleteAllHistory(ctx, s.DB)
}

// Ping checks the connection and that the history table is queryable.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	_, err = CountHistory(ctx, s.DB)
	return err
}

// Close releases the connection pool.
func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
