package risk

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := &Assessment{
		ID:         "risk_1",
		TransferID: "trf_1",
		Score:      30,
		Level:      LevelLow,
		Reasons:    []string{"large_amount"},
		CreatedAt:  time.Now(),
	}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByTransfer(ctx, "trf_1")
	if err != nil {
		t.Fatalf("GetByTransfer: %v", err)
	}
	if got.Score != 30 || got.Level != LevelLow {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryStore_OneAssessmentPerTransfer(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := &Assessment{ID: "risk_1", TransferID: "trf_1", Score: 30}
	second := &Assessment{ID: "risk_2", TransferID: "trf_1", Score: 90}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := store.GetByTransfer(ctx, "trf_1")
	if err != nil {
		t.Fatalf("GetByTransfer: %v", err)
	}
	if got.ID != "risk_1" || got.Score != 30 {
		t.Errorf("second save should be a no-op, got %+v", got)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	_, err := NewMemoryStore().GetByTransfer(context.Background(), "trf_missing")
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Errorf("err = %v, want ErrAssessmentNotFound", err)
	}
}
