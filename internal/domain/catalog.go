package domain

import "time"

// Category agrupa productos del catálogo (Computadoras, Teléfonos, etc.).
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Brand es el fabricante de un producto.
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Specification es un par clave/valor plano asociado a un producto
// (ej. "RAM" -> "16GB").
type Specification struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Product es la entidad central del catálogo. El precio se maneja como
// decimal plano (float64) para serializarlo sin pérdida dentro del prompt.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	Stock          int             `json:"stock"`
	CategoryID     string          `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	BrandID        string          `json:"brand_id"`
	BrandName      string          `json:"brand_name"`
	Image          string          `json:"image,omitempty"`
	Specifications []Specification `json:"specifications"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductRef es la vista mínima (id + nombre) que usa el índice de nombres
// para detectar menciones de productos en los mensajes.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogCounts son los totales globales incluidos en todo contexto.
type CatalogCounts struct {
	TotalProducts   int `json:"total_products"`
	TotalCategories int `json:"total_categories"`
	TotalBrands     int `json:"total_brands"`
}

// CategoryOverview resume una categoría para la sección de listado.
type CategoryOverview struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ProductCount int      `json:"product_count"`
	Brands       []string `json:"brands"`
}

// CategoryPriceStats agrega precios de una categoría con al menos un producto.
type CategoryPriceStats struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
}

// ProductFilter acota el listado de productos del catálogo.
type ProductFilter struct {
	Category string
	Brand    string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
}
