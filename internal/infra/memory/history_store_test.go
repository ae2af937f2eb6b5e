package memory

import (
	"context"
	"testing"

	"quiz-client/internal/domain"
)

func TestHistoryStoreUpsertIsKeyedByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()

	_ = store.Upsert(ctx, domain.EligibilityRecord{Email: "Ann@Example.com", Score: 1})
	_ = store.Upsert(ctx, domain.EligibilityRecord{Email: "ann@example.com", Score: 3})

	records, _ := store.List(ctx)
	if len(records) != 1 || records[0].Score != 3 {
		t.Fatalf("expected one updated record, got %+v", records)
	}
	if _, ok, _ := store.Find(ctx, " ANN@example.com "); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}

	_ = store.Clear(ctx)
	if _, ok, _ := store.Find(ctx, "ann@example.com"); ok {
		t.Fatalf("expected record cleared")
	}
}
