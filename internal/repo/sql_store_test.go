package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

func TestSQLStore_RoundTrip(t *testing.T) {
	st, err := NewSQLStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	ctx := context.Background()
	t.Cleanup(func() { _ = st.Close(ctx) })

	if err := st.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	a := domain.NewHistoryRecord(map[string]any{"text": "win a prize", "prediction": "spam"}, time.Now().Add(-time.Second))
	b := domain.NewHistoryRecord(map[string]any{"text": "lunch?", "prediction": "ham"}, time.Now())
	for _, r := range []domain.HistoryRecord{a, b} {
		if err := st.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("unexpected list: %+v", got)
	}

	if n, err := st.Delete(ctx, a.ID); err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	if n, err := st.DeleteAll(ctx); err != nil || n != 1 {
		t.Fatalf("DeleteAll: n=%d err=%v", n, err)
	}
}

func TestSQLStore_PingFailsAfterClose(t *testing.T) {
	st, err := NewSQLStore(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	ctx := context.Background()
	if err := st.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := st.Ping(ctx); err == nil {
		t.Fatalf("expected Ping error after Close")
	}
}

func TestNewSQLStore_BadPath(t *testing.T) {
	if _, err := NewSQLStore(filepath.Join(t.TempDir(), "missing", "x.db")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
