package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/repository"
)

type mockCatalog struct {
	categories []domain.Category
	brands     []domain.Brand
	products   []domain.Product
	byID       map[string]domain.Product
	lastFilter domain.ProductFilter
}

func (m *mockCatalog) Counts(_ context.Context) (domain.CatalogCounts, error) {
	return domain.CatalogCounts{}, nil
}

func (m *mockCatalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	return m.categories, nil
}

func (m *mockCatalog) ListBrands(_ context.Context) ([]domain.Brand, error) {
	return m.brands, nil
}

func (m *mockCatalog) GetCategory(_ context.Context, _ string) (domain.Category, error) {
	return domain.Category{}, nil
}

func (m *mockCatalog) GetBrand(_ context.Context, _ string) (domain.Brand, error) {
	return domain.Brand{}, nil
}

func (m *mockCatalog) BrandNames(_ context.Context) ([]string, error) { return nil, nil }

func (m *mockCatalog) ProductRefs(_ context.Context) ([]domain.ProductRef, error) { return nil, nil }

func (m *mockCatalog) CategoryOverviews(_ context.Context) ([]domain.CategoryOverview, error) {
	return nil, nil
}

func (m *mockCatalog) ProductsByCategory(_ context.Context, _ string) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) ProductsByBrand(_ context.Context, _ string) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockCatalog) SimilarProducts(_ context.Context, _, _ string, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) CategoryPriceStats(_ context.Context) ([]domain.CategoryPriceStats, error) {
	return nil, nil
}

func (m *mockCatalog) RepresentativeProducts(_ context.Context, _ string, _ int) ([]domain.RepresentativeProduct, error) {
	return nil, nil
}

func (m *mockCatalog) LowStock(_ context.Context, _ int) ([]domain.StockEntry, error) {
	return nil, nil
}

func (m *mockCatalog) OutOfStock(_ context.Context) ([]domain.StockEntry, error) { return nil, nil }

func (m *mockCatalog) TopStock(_ context.Context, _ int) ([]domain.StockEntry, error) {
	return nil, nil
}

func (m *mockCatalog) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	m.lastFilter = filter
	return m.products, nil
}

var _ repository.CatalogRepository = (*mockCatalog)(nil)

func setupCatalogRouter(repo repository.CatalogRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(zap.NewNop(), repo)
	r.GET("/api/categories", h.ListCategories)
	r.GET("/api/brands", h.ListBrands)
	r.GET("/api/products", h.ListProducts)
	r.GET("/api/products/:id", h.GetProduct)
	return r
}

func TestListProducts_Filtros(t *testing.T) {
	repo := &mockCatalog{products: []domain.Product{{ID: "p1", Name: "XPS 13"}}}
	r := setupCatalogRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=computadora&brand=dell&min_price=500&max_price=2000&in_stock=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if repo.lastFilter.Category != "computadora" || repo.lastFilter.Brand != "dell" {
		t.Fatalf("unexpected filter: %+v", repo.lastFilter)
	}
	if repo.lastFilter.MinPrice == nil || *repo.lastFilter.MinPrice != 500 {
		t.Fatalf("expected min_price 500, got %+v", repo.lastFilter.MinPrice)
	}
	if repo.lastFilter.MaxPrice == nil || *repo.lastFilter.MaxPrice != 2000 {
		t.Fatalf("expected max_price 2000, got %+v", repo.lastFilter.MaxPrice)
	}
	if !repo.lastFilter.InStock {
		t.Fatalf("expected in_stock filter")
	}
}

func TestListProducts_PrecioInvalido(t *testing.T) {
	r := setupCatalogRouter(&mockCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/products?min_price=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetProduct_NoExiste(t *testing.T) {
	r := setupCatalogRouter(&mockCatalog{byID: map[string]domain.Product{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListCategoriesYBrands(t *testing.T) {
	repo := &mockCatalog{
		categories: []domain.Category{{ID: "c1", Name: "Computadoras"}},
		brands:     []domain.Brand{{ID: "b1", Name: "Apple"}},
	}
	r := setupCatalogRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var catResp struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &catResp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(catResp.Categories) != 1 || catResp.Categories[0].Name != "Computadoras" {
		t.Fatalf("unexpected categories: %+v", catResp.Categories)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/brands", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
