package memory

import (
	"context"
	"errors"
	"testing"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/store"
)

func TestSeededCatalog(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	fabrics, err := s.ListFabrics(ctx)
	if err != nil {
		t.Fatalf("list fabrics failed: %v", err)
	}
	if len(fabrics) != 4 {
		t.Fatalf("expected 4 seeded fabrics, got %d", len(fabrics))
	}
	if fabrics[0].ID != "f1" || fabrics[0].Price != 180 {
		t.Fatalf("unexpected first fabric %+v", fabrics[0])
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(products))
	}
}

func TestFabricCRUD(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	added, err := s.AddFabric(ctx, domain.FabricOffering{ID: "f-new", Name: "قماش كوري", Price: 190})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if added.Image == "" {
		t.Fatalf("expected default image for new fabric")
	}

	fabrics, _ := s.ListFabrics(ctx)
	if fabrics[len(fabrics)-1].ID != "f-new" {
		t.Fatalf("new fabric should list last, got %+v", fabrics[len(fabrics)-1])
	}

	added.Price = 210
	if _, err := s.UpdateFabric(ctx, *added); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := s.GetFabric(ctx, "f-new")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Price != 210 {
		t.Fatalf("expected updated price 210, got %v", got.Price)
	}

	if err := s.RemoveFabric(ctx, "f-new"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := s.GetFabric(ctx, "f-new"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
	if err := s.RemoveFabric(ctx, "f-new"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("double removal should report ErrNotFound, got %v", err)
	}
}

func TestAddFabricValidation(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	if _, err := s.AddFabric(ctx, domain.FabricOffering{ID: "x", Name: "", Price: 100}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("nameless fabric should be rejected, got %v", err)
	}
	if _, err := s.AddFabric(ctx, domain.FabricOffering{ID: "x", Name: "قماش", Price: 0}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("zero-price fabric should be rejected, got %v", err)
	}
}

func TestGetProductsByIDs(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	got, err := s.GetProductsByIDs(ctx, []string{"thobe-1", "missing", "shawl-2"})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 resolved products, got %d", len(got))
	}
	if _, ok := got["missing"]; ok {
		t.Fatalf("missing id must not resolve")
	}
	if got["thobe-1"].Price != 250 {
		t.Fatalf("unexpected price %v", got["thobe-1"].Price)
	}
}

func TestListCopiesAreIsolated(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	fabrics, _ := s.ListFabrics(ctx)
	fabrics[0].Price = 1

	again, _ := s.ListFabrics(ctx)
	if again[0].Price != 180 {
		t.Fatalf("list must return a copy, got %v", again[0].Price)
	}
}
