package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bnl-store/internal/domain"
	"bnl-store/internal/repository"
)

// CatalogHandler expone las lecturas del catálogo. Sin escrituras: la
// administración del catálogo vive fuera de este servicio.
type CatalogHandler struct {
	logger  *zap.Logger
	catalog repository.CatalogRepository
}

func NewCatalogHandler(logger *zap.Logger, catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{logger: logger, catalog: catalog}
}

// ListCategories maneja GET /api/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list categories"})
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListBrands maneja GET /api/brands.
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		h.logger.Error("list brands failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list brands"})
		return
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// ListProducts maneja GET /api/products con filtros opcionales por categoría,
// marca, texto libre, rango de precio (límites inclusivos) y existencia.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		InStock:  c.Query("in_stock") == "true",
	}

	if raw := c.Query("min_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		filter.MinPrice = &value
	}
	if raw := c.Query("max_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		filter.MaxPrice = &value
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct maneja GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.logger.Error("get product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
