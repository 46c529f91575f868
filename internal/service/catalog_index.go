package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/repository"
)

// CatalogSnapshot es la vista inmutable de nombres que consume el
// clasificador. Products conserva el orden de iteración del catálogo, del que
// depende la política first-match-wins.
type CatalogSnapshot struct {
	Brands   []string
	Products []domain.ProductRef
}

// CatalogIndex mantiene en memoria los nombres de marcas y productos para no
// recorrer las tablas completas en cada mensaje. Se refresca periódicamente.
type CatalogIndex struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger

	mu   sync.RWMutex
	snap CatalogSnapshot
}

func NewCatalogIndex(catalog repository.CatalogRepository, logger *zap.Logger) *CatalogIndex {
	return &CatalogIndex{catalog: catalog, logger: logger}
}

// Refresh recarga el snapshot desde el catálogo.
func (i *CatalogIndex) Refresh(ctx context.Context) error {
	brands, err := i.catalog.BrandNames(ctx)
	if err != nil {
		return fmt.Errorf("load brand names: %w", err)
	}

	products, err := i.catalog.ProductRefs(ctx)
	if err != nil {
		return fmt.Errorf("load product refs: %w", err)
	}

	i.mu.Lock()
	i.snap = CatalogSnapshot{Brands: brands, Products: products}
	i.mu.Unlock()
	return nil
}

// Snapshot devuelve la última vista cargada. Vacía si nunca se refrescó.
func (i *CatalogIndex) Snapshot() CatalogSnapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snap
}

// Run refresca el índice cada interval hasta que el contexto se cancele.
// Un refresco fallido conserva el snapshot anterior.
func (i *CatalogIndex) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := i.Refresh(ctx); err != nil && i.logger != nil {
				i.logger.Warn("catalog index refresh failed", zap.Error(err))
			}
		}
	}
}
