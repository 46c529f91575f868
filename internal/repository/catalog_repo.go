package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bnl-store/internal/domain"
)

// CatalogRepository es la fachada de lectura sobre el catálogo. El chatbot
// solo consulta; las escrituras del catálogo viven fuera de este servicio.
type CatalogRepository interface {
	Counts(ctx context.Context) (domain.CatalogCounts, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	GetBrand(ctx context.Context, id string) (domain.Brand, error)

	// BrandNames y ProductRefs alimentan el índice en memoria del clasificador.
	// ProductRefs conserva un orden de iteración estable (created_at, id).
	BrandNames(ctx context.Context) ([]string, error)
	ProductRefs(ctx context.Context) ([]domain.ProductRef, error)

	CategoryOverviews(ctx context.Context) ([]domain.CategoryOverview, error)
	ProductsByCategory(ctx context.Context, name string) ([]domain.Product, error)
	ProductsByBrand(ctx context.Context, name string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	SimilarProducts(ctx context.Context, categoryID, excludeID string, limit int) ([]domain.Product, error)

	CategoryPriceStats(ctx context.Context) ([]domain.CategoryPriceStats, error)
	RepresentativeProducts(ctx context.Context, category string, limit int) ([]domain.RepresentativeProduct, error)

	LowStock(ctx context.Context, threshold int) ([]domain.StockEntry, error)
	OutOfStock(ctx context.Context) ([]domain.StockEntry, error)
	TopStock(ctx context.Context, limit int) ([]domain.StockEntry, error)

	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.stock,
	p.category_id, c.name, p.brand_id, b.name,
	COALESCE(p.image, ''), p.created_at, p.updated_at
`

const productJoins = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN brands b ON b.id = p.brand_id
`

func (r *PgCatalogRepository) Counts(ctx context.Context) (domain.CatalogCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM brands)
	`

	var counts domain.CatalogCounts
	err := r.pool.QueryRow(ctx, query).Scan(
		&counts.TotalProducts,
		&counts.TotalCategories,
		&counts.TotalBrands,
	)
	return counts, err
}

func (r *PgCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, name, description, created_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *PgCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	const query = `
		SELECT id, name, description, created_at
		FROM brands
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		var brand domain.Brand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}

func (r *PgCatalogRepository) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	const query = `SELECT id, name, description, created_at FROM categories WHERE id = $1`

	var cat domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt)
	return cat, err
}

func (r *PgCatalogRepository) GetBrand(ctx context.Context, id string) (domain.Brand, error) {
	const query = `SELECT id, name, description, created_at FROM brands WHERE id = $1`

	var brand domain.Brand
	err := r.pool.QueryRow(ctx, query, id).Scan(&brand.ID, &brand.Name, &brand.Description, &brand.CreatedAt)
	return brand, err
}

func (r *PgCatalogRepository) BrandNames(ctx context.Context) ([]string, error) {
	const query = `SELECT name FROM brands ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *PgCatalogRepository) ProductRefs(ctx context.Context) ([]domain.ProductRef, error) {
	const query = `SELECT id, name FROM products ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.ProductRef
	for rows.Next() {
		var ref domain.ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PgCatalogRepository) CategoryOverviews(ctx context.Context) ([]domain.CategoryOverview, error) {
	const query = `
		SELECT
			c.name,
			c.description,
			COUNT(p.id),
			COALESCE(ARRAY_AGG(DISTINCT b.name) FILTER (WHERE b.name IS NOT NULL), '{}')
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		LEFT JOIN brands b ON b.id = p.brand_id
		GROUP BY c.id, c.name, c.description
		ORDER BY c.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []domain.CategoryOverview
	for rows.Next() {
		var ov domain.CategoryOverview
		if err := rows.Scan(&ov.Name, &ov.Description, &ov.ProductCount, &ov.Brands); err != nil {
			return nil, err
		}
		overviews = append(overviews, ov)
	}
	return overviews, rows.Err()
}

func (r *PgCatalogRepository) ProductsByCategory(ctx context.Context, name string) ([]domain.Product, error) {
	const query = `
		SELECT ` + productColumns + productJoins + `
		WHERE c.name ILIKE '%' || $1 || '%'
		ORDER BY p.created_at ASC, p.id ASC
	`
	return r.queryProducts(ctx, query, name)
}

func (r *PgCatalogRepository) ProductsByBrand(ctx context.Context, name string) ([]domain.Product, error) {
	const query = `
		SELECT ` + productColumns + productJoins + `
		WHERE b.name = $1
		ORDER BY p.created_at ASC, p.id ASC
	`
	return r.queryProducts(ctx, query, name)
}

func (r *PgCatalogRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const query = `
		SELECT ` + productColumns + productJoins + `
		WHERE p.id = $1
	`

	products, err := r.queryProducts(ctx, query, id)
	if err != nil {
		return domain.Product{}, err
	}
	if len(products) == 0 {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, pgx.ErrNoRows)
	}
	return products[0], nil
}

func (r *PgCatalogRepository) SimilarProducts(ctx context.Context, categoryID, excludeID string, limit int) ([]domain.Product, error) {
	const query = `
		SELECT ` + productColumns + productJoins + `
		WHERE p.category_id = $1 AND p.id <> $2
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $3
	`
	return r.queryProducts(ctx, query, categoryID, excludeID, limit)
}

func (r *PgCatalogRepository) CategoryPriceStats(ctx context.Context) ([]domain.CategoryPriceStats, error) {
	const query = `
		SELECT c.name, COUNT(p.id), MIN(p.price), MAX(p.price), AVG(p.price)
		FROM categories c
		JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		HAVING COUNT(p.id) > 0
		ORDER BY c.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.CategoryPriceStats
	for rows.Next() {
		var st domain.CategoryPriceStats
		if err := rows.Scan(&st.Category, &st.Count, &st.MinPrice, &st.MaxPrice, &st.AvgPrice); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (r *PgCatalogRepository) RepresentativeProducts(ctx context.Context, category string, limit int) ([]domain.RepresentativeProduct, error) {
	const query = `
		SELECT p.name, p.price, b.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE c.name = $1
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []domain.RepresentativeProduct
	for rows.Next() {
		var rep domain.RepresentativeProduct
		if err := rows.Scan(&rep.Name, &rep.Price, &rep.Brand); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

const stockEntryQuery = `
	SELECT p.id, p.name, p.stock, p.price, b.name, c.name
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN brands b ON b.id = p.brand_id
`

func (r *PgCatalogRepository) LowStock(ctx context.Context, threshold int) ([]domain.StockEntry, error) {
	const query = stockEntryQuery + `
		WHERE p.stock < $1
		ORDER BY p.stock ASC, p.name ASC
	`
	return r.queryStockEntries(ctx, query, threshold)
}

func (r *PgCatalogRepository) OutOfStock(ctx context.Context) ([]domain.StockEntry, error) {
	const query = stockEntryQuery + `
		WHERE p.stock = 0
		ORDER BY p.name ASC
	`
	return r.queryStockEntries(ctx, query)
}

func (r *PgCatalogRepository) TopStock(ctx context.Context, limit int) ([]domain.StockEntry, error) {
	const query = stockEntryQuery + `
		ORDER BY p.stock DESC, p.name ASC
		LIMIT $1
	`
	return r.queryStockEntries(ctx, query, limit)
}

func (r *PgCatalogRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)

	addArg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, "c.name ILIKE '%' || "+addArg(filter.Category)+" || '%'")
	}
	if filter.Brand != "" {
		conditions = append(conditions, "b.name ILIKE '%' || "+addArg(filter.Brand)+" || '%'")
	}
	if filter.Search != "" {
		ph := addArg(filter.Search)
		conditions = append(conditions, "(p.name ILIKE '%' || "+ph+" || '%' OR p.description ILIKE '%' || "+ph+" || '%')")
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "p.price >= "+addArg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "p.price <= "+addArg(*filter.MaxPrice))
	}
	if filter.InStock {
		conditions = append(conditions, "p.stock > 0")
	}

	query := "SELECT " + productColumns + productJoins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at ASC, p.id ASC"

	return r.queryProducts(ctx, query, args...)
}

func (r *PgCatalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.CategoryID, &p.CategoryName, &p.BrandID, &p.BrandName,
			&p.Image, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachSpecifications(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// attachSpecifications carga las especificaciones de todos los productos
// listados en una sola consulta.
func (r *PgCatalogRepository) attachSpecifications(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
		byID[products[i].ID] = &products[i]
	}

	const query = `
		SELECT id, product_id, key, value
		FROM product_specifications
		WHERE product_id = ANY($1)
		ORDER BY key ASC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			spec      domain.Specification
			productID string
		)
		if err := rows.Scan(&spec.ID, &productID, &spec.Key, &spec.Value); err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.Specifications = append(p.Specifications, spec)
		}
	}
	return rows.Err()
}

func (r *PgCatalogRepository) queryStockEntries(ctx context.Context, query string, args ...any) ([]domain.StockEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StockEntry
	for rows.Next() {
		var entry domain.StockEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Stock, &entry.Price, &entry.Brand, &entry.Category); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
