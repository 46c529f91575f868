package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"bnl-store/internal/domain"
)

func TestCatalogIndexRefresh(t *testing.T) {
	repo := &mockCatalogRepo{
		brandNames: []string{"Apple", "Samsung"},
		refs: []domain.ProductRef{
			{ID: "p1", Name: "iPhone 14"},
			{ID: "p2", Name: "Galaxy S22"},
		},
	}
	index := NewCatalogIndex(repo, zap.NewNop())

	if snap := index.Snapshot(); len(snap.Brands) != 0 || len(snap.Products) != 0 {
		t.Fatalf("expected empty snapshot before refresh, got %+v", snap)
	}

	if err := index.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := index.Snapshot()
	if len(snap.Brands) != 2 || snap.Brands[0] != "Apple" {
		t.Fatalf("unexpected brands: %v", snap.Brands)
	}
	if len(snap.Products) != 2 || snap.Products[0].ID != "p1" {
		t.Fatalf("expected catalog iteration order preserved, got %v", snap.Products)
	}
}

func TestCatalogIndexRefresh_ErrorConservaSnapshot(t *testing.T) {
	repo := &mockCatalogRepo{
		brandNames: []string{"Apple"},
		refs:       []domain.ProductRef{{ID: "p1", Name: "iPhone 14"}},
	}
	index := NewCatalogIndex(repo, zap.NewNop())

	if err := index.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.refreshErr = errors.New("db down")
	if err := index.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}

	snap := index.Snapshot()
	if len(snap.Brands) != 1 || len(snap.Products) != 1 {
		t.Fatalf("expected previous snapshot preserved, got %+v", snap)
	}
}
