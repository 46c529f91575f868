package service

import (
	"context"
	"fmt"

	"bnl-store/internal/domain"
	"bnl-store/internal/repository"
)

// Topes por sección para acotar el tamaño del prompt sin importar el tamaño
// del catálogo.
const (
	similarProductsLimit = 5
	priceSampleLimit     = 10
	topStockLimit        = 10
	lowStockThreshold    = 5
)

// ContextBuilder arma el documento de contexto emitiendo una consulta acotada
// al catálogo por cada intent detectado. Solo lee; nunca escribe.
type ContextBuilder struct {
	catalog repository.CatalogRepository
}

func NewContextBuilder(catalog repository.CatalogRepository) *ContextBuilder {
	return &ContextBuilder{catalog: catalog}
}

// Build produce el documento de contexto. Los totales globales van siempre;
// un catálogo vacío produce secciones vacías, nunca un error.
func (b *ContextBuilder) Build(ctx context.Context, intents []Intent) (domain.ContextDocument, error) {
	var doc domain.ContextDocument

	counts, err := b.catalog.Counts(ctx)
	if err != nil {
		return doc, fmt.Errorf("catalog counts: %w", err)
	}
	doc.Catalog = counts

	for _, intent := range intents {
		switch intent.Kind {
		case IntentCategoryListing:
			if err := b.addCategoryListing(ctx, &doc); err != nil {
				return doc, err
			}
		case IntentCategory:
			if err := b.addCategoryInfo(ctx, &doc, intent.Value); err != nil {
				return doc, err
			}
		case IntentBrand:
			if err := b.addBrandInfo(ctx, &doc, intent.Value); err != nil {
				return doc, err
			}
		case IntentSpecificProduct:
			// Solo el primer producto detectado se expande.
			if doc.SpecificProduct != nil {
				continue
			}
			if err := b.addSpecificProduct(ctx, &doc, intent.Value); err != nil {
				return doc, err
			}
		case IntentPriceInquiry:
			if err := b.addPriceInfo(ctx, &doc); err != nil {
				return doc, err
			}
		case IntentStockInquiry:
			if err := b.addStockInfo(ctx, &doc); err != nil {
				return doc, err
			}
		}
	}

	return doc, nil
}

func (b *ContextBuilder) addCategoryListing(ctx context.Context, doc *domain.ContextDocument) error {
	overviews, err := b.catalog.CategoryOverviews(ctx)
	if err != nil {
		return fmt.Errorf("category overviews: %w", err)
	}
	doc.Categories = overviews
	return nil
}

func (b *ContextBuilder) addCategoryInfo(ctx context.Context, doc *domain.ContextDocument, category string) error {
	products, err := b.catalog.ProductsByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("products by category %q: %w", category, err)
	}

	info := domain.CategoryContext{
		Total:    len(products),
		Products: make([]domain.ProductContext, 0, len(products)),
		ByBrand:  make(map[string]domain.PriceAggregate),
	}

	for _, p := range products {
		info.Products = append(info.Products, productContext(p))

		agg, seen := info.ByBrand[p.BrandName]
		if !seen || p.Price < agg.MinPrice {
			agg.MinPrice = p.Price
		}
		if p.Price > agg.MaxPrice {
			agg.MaxPrice = p.Price
		}
		// AvgPrice acarrea la suma hasta el cierre del bucket.
		agg.AvgPrice += p.Price
		agg.Count++
		info.ByBrand[p.BrandName] = agg
	}
	for brand, agg := range info.ByBrand {
		agg.AvgPrice = agg.AvgPrice / float64(agg.Count)
		info.ByBrand[brand] = agg
	}

	if doc.CategoryInfo == nil {
		doc.CategoryInfo = make(map[string]domain.CategoryContext)
	}
	doc.CategoryInfo[category] = info
	return nil
}

func (b *ContextBuilder) addBrandInfo(ctx context.Context, doc *domain.ContextDocument, brand string) error {
	products, err := b.catalog.ProductsByBrand(ctx, brand)
	if err != nil {
		return fmt.Errorf("products by brand %q: %w", brand, err)
	}

	info := domain.BrandContext{
		Total:      len(products),
		Products:   make([]domain.ProductContext, 0, len(products)),
		ByCategory: make(map[string]int),
	}
	for _, p := range products {
		info.Products = append(info.Products, productContext(p))
		info.ByCategory[p.CategoryName]++
	}

	if doc.BrandInfo == nil {
		doc.BrandInfo = make(map[string]domain.BrandContext)
	}
	doc.BrandInfo[brand] = info
	return nil
}

func (b *ContextBuilder) addSpecificProduct(ctx context.Context, doc *domain.ContextDocument, productID string) error {
	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product %q: %w", productID, err)
	}

	brand, err := b.catalog.GetBrand(ctx, product.BrandID)
	if err != nil {
		return fmt.Errorf("get brand %q: %w", product.BrandID, err)
	}

	category, err := b.catalog.GetCategory(ctx, product.CategoryID)
	if err != nil {
		return fmt.Errorf("get category %q: %w", product.CategoryID, err)
	}

	similar, err := b.catalog.SimilarProducts(ctx, product.CategoryID, product.ID, similarProductsLimit)
	if err != nil {
		return fmt.Errorf("similar products for %q: %w", productID, err)
	}

	detail := domain.ProductDetailContext{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Brand:       domain.EntityRef{Name: brand.Name, Description: brand.Description},
		Category:    domain.EntityRef{Name: category.Name, Description: category.Description},
		Image:       product.Image,
		Specs:       specsMap(product.Specifications),
		Similar:     make([]domain.SimilarProduct, 0, len(similar)),
	}
	for _, s := range similar {
		detail.Similar = append(detail.Similar, domain.SimilarProduct{
			ID:    s.ID,
			Name:  s.Name,
			Price: s.Price,
			Brand: s.BrandName,
		})
	}

	doc.SpecificProduct = &detail
	return nil
}

func (b *ContextBuilder) addPriceInfo(ctx context.Context, doc *domain.ContextDocument) error {
	stats, err := b.catalog.CategoryPriceStats(ctx)
	if err != nil {
		return fmt.Errorf("category price stats: %w", err)
	}

	sections := make([]domain.CategoryPriceContext, 0, len(stats))
	for _, st := range stats {
		reps, err := b.catalog.RepresentativeProducts(ctx, st.Category, priceSampleLimit)
		if err != nil {
			return fmt.Errorf("representative products for %q: %w", st.Category, err)
		}
		sections = append(sections, domain.CategoryPriceContext{
			Category: st.Category,
			Count:    st.Count,
			MinPrice: st.MinPrice,
			MaxPrice: st.MaxPrice,
			AvgPrice: st.AvgPrice,
			Products: reps,
		})
	}

	doc.PriceInfo = sections
	return nil
}

func (b *ContextBuilder) addStockInfo(ctx context.Context, doc *domain.ContextDocument) error {
	low, err := b.catalog.LowStock(ctx, lowStockThreshold)
	if err != nil {
		return fmt.Errorf("low stock: %w", err)
	}

	out, err := b.catalog.OutOfStock(ctx)
	if err != nil {
		return fmt.Errorf("out of stock: %w", err)
	}

	top, err := b.catalog.TopStock(ctx, topStockLimit)
	if err != nil {
		return fmt.Errorf("top stock: %w", err)
	}

	doc.StockInfo = &domain.StockContext{
		LowStock:   emptyIfNil(low),
		OutOfStock: emptyIfNil(out),
		TopStock:   emptyIfNil(top),
	}
	return nil
}

func productContext(p domain.Product) domain.ProductContext {
	return domain.ProductContext{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Brand:       p.BrandName,
		Category:    p.CategoryName,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt.Format("2006-01-02"),
		Specs:       specsMap(p.Specifications),
	}
}

func specsMap(specs []domain.Specification) map[string]string {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		out[s.Key] = s.Value
	}
	return out
}

func emptyIfNil(entries []domain.StockEntry) []domain.StockEntry {
	if entries == nil {
		return []domain.StockEntry{}
	}
	return entries
}
