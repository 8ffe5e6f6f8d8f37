package dto

// DebugProductResponse diagnóstico de la recuperación de un SKU.
type DebugProductResponse struct {
	Ok           bool    `json:"ok"`
	Found        bool    `json:"found"`
	SkuEcho      string  `json:"skuEcho"`
	SkuFromApi   string  `json:"skuFromApi"`
	ExtractedQty float64 `json:"extractedQty"`
	XmlHead      string  `json:"xmlHead"`
}

// QtyPathDTO una ruta del árbol del producto cuya clave parece de cantidad.
type QtyPathDTO struct {
	Path  string  `json:"path"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// DebugQtyPathsResponse rutas de cantidad halladas en el registro completo,
// ordenadas por valor descendente; para diagnosticar de dónde sale la
// cantidad extraída.
type DebugQtyPathsResponse struct {
	Ok            bool         `json:"ok"`
	SkuEcho       string       `json:"skuEcho"`
	SkuFromApi    string       `json:"skuFromApi"`
	TopQtyPaths   []QtyPathDTO `json:"topQtyPaths"`
	TotalQtyPaths int          `json:"totalQtyPaths"`
}
