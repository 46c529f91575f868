package domain

// ContextDocument es el árbol efímero de datos de catálogo que se arma por
// request y se incrusta serializado en el prompt. Solo la sección de totales
// está siempre presente; el resto depende de los intents detectados.
type ContextDocument struct {
	Catalog         CatalogCounts              `json:"catalog"`
	Categories      []CategoryOverview         `json:"categories,omitempty"`
	CategoryInfo    map[string]CategoryContext `json:"category_info,omitempty"`
	BrandInfo       map[string]BrandContext    `json:"brand_info,omitempty"`
	SpecificProduct *ProductDetailContext      `json:"specific_product,omitempty"`
	PriceInfo       []CategoryPriceContext     `json:"price_info,omitempty"`
	StockInfo       *StockContext              `json:"stock_info,omitempty"`
}

// ProductContext es la vista plana de un producto dentro de una sección.
type ProductContext struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	Brand       string            `json:"brand"`
	Category    string            `json:"category"`
	Image       string            `json:"image,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Specs       map[string]string `json:"specs"`
}

// PriceAggregate acumula estadísticas de precio sobre los productos vistos.
type PriceAggregate struct {
	Count    int     `json:"count"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
}

// CategoryContext responde a un intent de categoría.
type CategoryContext struct {
	Total    int                       `json:"total"`
	Products []ProductContext          `json:"products"`
	ByBrand  map[string]PriceAggregate `json:"by_brand"`
}

// BrandContext responde a la mención de una marca.
type BrandContext struct {
	Total      int              `json:"total"`
	Products   []ProductContext `json:"products"`
	ByCategory map[string]int   `json:"by_category"`
}

// EntityRef anida nombre y descripción de la marca o categoría de un producto.
type EntityRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SimilarProduct es la vista reducida de un producto relacionado.
type SimilarProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Brand string  `json:"brand"`
}

// ProductDetailContext expande el primer producto mencionado en el mensaje.
type ProductDetailContext struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	Brand       EntityRef         `json:"brand"`
	Category    EntityRef         `json:"category"`
	Image       string            `json:"image,omitempty"`
	Specs       map[string]string `json:"specs"`
	Similar     []SimilarProduct  `json:"similar_products"`
}

// RepresentativeProduct es la muestra acotada dentro de price_info.
type RepresentativeProduct struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Brand string  `json:"brand"`
}

// CategoryPriceContext responde a una consulta de precios.
type CategoryPriceContext struct {
	Category string                  `json:"category"`
	Count    int                     `json:"count"`
	MinPrice float64                 `json:"min_price"`
	MaxPrice float64                 `json:"max_price"`
	AvgPrice float64                 `json:"avg_price"`
	Products []RepresentativeProduct `json:"products"`
}

// StockEntry es una fila de los buckets de inventario.
type StockEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
}

// StockContext responde a una consulta de inventario.
type StockContext struct {
	LowStock   []StockEntry `json:"low_stock"`
	OutOfStock []StockEntry `json:"out_of_stock"`
	TopStock   []StockEntry `json:"top_stock"`
}
