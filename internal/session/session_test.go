package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"yarmouktailor/backend/internal/store"
)

func TestAdjustCartAddAndRemove(t *testing.T) {
	state := NewState("sess-test")

	state.AdjustCart("thobe-1", 1)
	state.AdjustCart("thobe-1", 1)
	state.AdjustCart("shawl-1", 1)
	if got := state.CartQuantity("thobe-1"); got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}

	state.AdjustCart("thobe-1", -1)
	if got := state.CartQuantity("thobe-1"); got != 1 {
		t.Fatalf("expected quantity 1 after decrement, got %d", got)
	}

	state.AdjustCart("thobe-1", -1)
	if got := state.CartQuantity("thobe-1"); got != 0 {
		t.Fatalf("line should be removed at zero, got %d", got)
	}
	if len(state.Cart) != 1 {
		t.Fatalf("expected one remaining line, got %d", len(state.Cart))
	}
}

func TestAdjustCartClampsAtZero(t *testing.T) {
	state := NewState("sess-test")
	state.AdjustCart("thobe-1", 1)
	state.AdjustCart("thobe-1", -5)
	if len(state.Cart) != 0 {
		t.Fatalf("over-decrement should remove the line, got %+v", state.Cart)
	}

	state.AdjustCart("thobe-1", -1)
	if len(state.Cart) != 0 {
		t.Fatalf("decrementing an absent line must not create it, got %+v", state.Cart)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(time.Hour)

	state := NewState("sess-1")
	state.SelectedFabricID = "f1"
	if err := ms.Put(ctx, state); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	loaded, err := ms.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.SelectedFabricID != "f1" {
		t.Fatalf("expected fabric f1, got %q", loaded.SelectedFabricID)
	}

	// Mutating the loaded copy must not leak back into the store.
	loaded.SelectedFabricID = "f2"
	again, err := ms.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.SelectedFabricID != "f1" {
		t.Fatalf("store must hand out copies, got %q", again.SelectedFabricID)
	}

	if err := ms.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ms.Get(ctx, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(-time.Second)

	if err := ms.Put(ctx, NewState("sess-expired")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := ms.Get(ctx, "sess-expired"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestPurgeFabricSelection(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(time.Hour)

	a := NewState("sess-a")
	a.SelectedFabricID = "f2"
	b := NewState("sess-b")
	b.SelectedFabricID = "f3"
	for _, s := range []*State{a, b} {
		if err := ms.Put(ctx, s); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	if err := ms.PurgeFabricSelection(ctx, "f2"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	got, err := ms.Get(ctx, "sess-a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SelectedFabricID != "" {
		t.Fatalf("purged fabric should be cleared, got %q", got.SelectedFabricID)
	}
	got, err = ms.Get(ctx, "sess-b")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SelectedFabricID != "f3" {
		t.Fatalf("other selections must survive, got %q", got.SelectedFabricID)
	}
}

func TestManagerUpdateDoesNotPersistOnError(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryStore(time.Hour))

	state, err := manager.Create(ctx)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	boom := errors.New("boom")
	if _, err := manager.Update(ctx, state.ID, func(s *State) error {
		s.SelectedFabricID = "f1"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	loaded, err := manager.Get(ctx, state.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.SelectedFabricID != "" {
		t.Fatalf("failed update must not persist, got %q", loaded.SelectedFabricID)
	}
}
