// Package services – HistoryService
//
// HistoryService is the facade over the configured history store (SQLite or
// MongoDB). It validates client input, stamps new records with an identifier
// and the server clock, and maps store failures onto ErrStoreUnavailable.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

// HistoryStore is the persistence handle shared by both backends.
type HistoryStore interface {
	Insert(ctx context.Context, rec domain.HistoryRecord) error
	List(ctx context.Context) ([]domain.HistoryRecord, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// HistoryService coordinates history persistence and aggregation.
type HistoryService struct {
	Store HistoryStore

	// Now is the clock used for createdAt; defaults to time.Now.
	Now func() time.Time
}

// NewHistoryService wires a service over store.
func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{Store: store, Now: time.Now}
}

var historyTracer = otel.Tracer("services/HistoryService")

func (s *HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Insert stores doc, which must be a JSON object, and returns the new id.
// Client-supplied "_id", "id" and "createdAt" keys are replaced.
func (s *HistoryService) Insert(ctx context.Context, doc any) (string, error) {
	ctx, span := historyTracer.Start(ctx, "Insert")
	defer span.End()

	fields, ok := doc.(map[string]any)
	if !ok {
		return "", ErrNotObject
	}

	rec := domain.NewHistoryRecord(fields, s.now())
	span.SetAttributes(attribute.String("history.id", rec.ID))
	if err := s.Store.Insert(ctx, rec); err != nil {
		return "", s.fail(span, err)
	}
	return rec.ID, nil
}

// List returns every record, most recent first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	ctx, span := historyTracer.Start(ctx, "List")
	defer span.End()

	items, err := s.Store.List(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if items == nil {
		items = []domain.HistoryRecord{}
	}
	span.SetAttributes(attribute.Int("history.count", len(items)))
	return items, nil
}

// Delete removes one record. A blank id yields ErrMissingID, a malformed id
// (including one with surrounding whitespace) ErrInvalidID, and an id
// matching nothing ErrNotFound.
func (s *HistoryService) Delete(ctx context.Context, id string) (int64, error) {
	ctx, span := historyTracer.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("history.id", id)),
	)
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return 0, ErrMissingID
	}
	// Padding is not stripped: " <hex> " is malformed, not a match.
	if !domain.ValidID(id) {
		return 0, ErrInvalidID
	}

	n, err := s.Store.Delete(ctx, id)
	if err != nil {
		return 0, s.fail(span, err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

// DeleteAll removes every record and reports how many were removed.
func (s *HistoryService) DeleteAll(ctx context.Context) (int64, error) {
	ctx, span := historyTracer.Start(ctx, "DeleteAll")
	defer span.End()

	n, err := s.Store.DeleteAll(ctx)
	if err != nil {
		return 0, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int64("history.deleted", n))
	return n, nil
}

// Stats summarizes the current history.
func (s *HistoryService) Stats(ctx context.Context) (domain.Stats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Summarize(items), nil
}

// Ready reports whether the store answers.
func (s *HistoryService) Ready(ctx context.Context) error {
	if err := s.Store.Ping(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *HistoryService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return storeErr(err)
}
