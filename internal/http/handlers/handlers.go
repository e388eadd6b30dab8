package handlers

import (
	"context"
	"encoding/json"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

//
// Service contracts (context-aware)
//

// HistoryService defines the history operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation.
type HistoryService interface {
	// Insert stores a JSON object and returns its new id.
	Insert(ctx context.Context, doc any) (string, error)
	// List returns all records, most recent first.
	List(ctx context.Context) ([]domain.HistoryRecord, error)
	// Delete removes one record by id and reports the count removed.
	Delete(ctx context.Context, id string) (int64, error)
	// DeleteAll removes every record and reports the count removed.
	DeleteAll(ctx context.Context) (int64, error)
	// Stats summarizes the current history.
	Stats(ctx context.Context) (domain.Stats, error)
	// Ready reports whether the backing store answers.
	Ready(ctx context.Context) error
}

// PredictService proxies classification requests to the inference endpoint.
type PredictService interface {
	// Ready fails with services.ErrNotConfigured when no endpoint is set.
	Ready() error
	// Classify forwards text (or raw when text is blank) and returns the result.
	Classify(ctx context.Context, text string, raw json.RawMessage) (any, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	historySvc HistoryService
	predictSvc PredictService
}

// New constructs a Handlers instance bound to the given services.
func New(historySvc HistoryService, predictSvc PredictService) *Handlers {
	return &Handlers{historySvc: historySvc, predictSvc: predictSvc}
}
