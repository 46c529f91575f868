package service

import "strings"

// Tipos de intent detectables en un mensaje.
const (
	IntentCategoryListing = "category_listing"
	IntentCategory        = "category"
	IntentBrand           = "brand"
	IntentSpecificProduct = "specific_product"
	IntentPriceInquiry    = "price_inquiry"
	IntentStockInquiry    = "stock_inquiry"
)

// Intent es un propósito clasificado del mensaje. Value lleva el nombre de la
// categoría o marca, o el id del producto, según el tipo.
type Intent struct {
	Kind  string
	Value string
}

// categoryTriggers mapea cada categoría del catálogo a sus sinónimos. Agregar
// una categoría es un cambio de datos, no de control de flujo.
var categoryTriggers = []struct {
	Category string
	Triggers []string
}{
	{"Computadoras", []string{"computadora", "laptop", "pc", "ordenador", "notebook"}},
	{"Teléfonos", []string{"teléfono", "telefono", "celular", "smartphone", "móvil", "movil"}},
	{"Tablets", []string{"tablet", "ipad"}},
	{"Accesorios", []string{"accesorio", "mouse", "teclado", "cargador", "funda"}},
	{"Audio", []string{"audífono", "audifono", "auricular", "parlante", "bocina", "headphone"}},
	{"Gaming", []string{"gaming", "consola", "videojuego", "gamer"}},
}

// inquiryTriggers cubre los intents sin argumento.
var inquiryTriggers = []struct {
	Kind     string
	Triggers []string
}{
	{IntentCategoryListing, []string{"categorías", "categorias", "categoría", "categoria", "qué venden", "que venden", "tipos de productos", "catálogo", "catalogo"}},
	{IntentPriceInquiry, []string{"precio", "cuesta", "cuánto", "cuanto", "vale", "barato", "caro", "oferta"}},
	{IntentStockInquiry, []string{"stock", "disponible", "disponibilidad", "inventario", "quedan", "existencia", "agotado"}},
}

// ClassifyIntents detecta los intents de un mensaje por contención de
// substrings, sin tokenización ni fuzzy matching. Es una función pura sobre el
// texto y el snapshot del catálogo.
//
// Para producto específico aplica first-match-wins: gana el primer producto en
// el orden de iteración del catálogo cuyo nombre aparezca en el mensaje,
// aunque exista otro match más largo o más específico.
func ClassifyIntents(message string, snap CatalogSnapshot) []Intent {
	lower := strings.ToLower(message)
	var intents []Intent

	for _, group := range inquiryTriggers {
		if group.Kind != IntentCategoryListing {
			continue
		}
		if matchesAny(lower, group.Triggers) {
			intents = append(intents, Intent{Kind: IntentCategoryListing})
		}
	}

	for _, group := range categoryTriggers {
		if matchesAny(lower, group.Triggers) {
			intents = append(intents, Intent{Kind: IntentCategory, Value: group.Category})
		}
	}

	for _, brand := range snap.Brands {
		if brand != "" && strings.Contains(lower, strings.ToLower(brand)) {
			intents = append(intents, Intent{Kind: IntentBrand, Value: brand})
		}
	}

	for _, ref := range snap.Products {
		if ref.Name != "" && strings.Contains(lower, strings.ToLower(ref.Name)) {
			intents = append(intents, Intent{Kind: IntentSpecificProduct, Value: ref.ID})
			break
		}
	}

	for _, group := range inquiryTriggers {
		if group.Kind == IntentCategoryListing {
			continue
		}
		if matchesAny(lower, group.Triggers) {
			intents = append(intents, Intent{Kind: group.Kind})
		}
	}

	return intents
}

func matchesAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
