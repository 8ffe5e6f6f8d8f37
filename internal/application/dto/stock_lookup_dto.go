package dto

// GetStockRequest cuerpo de POST /api/get-stock.
type GetStockRequest struct {
	Skus []string `json:"skus"`
}

// StockLevelDTO nivel de stock por SKU pedido. Sku es el identificador
// canónico remoto (o el pedido si no hubo registro), para poder escribir
// después sobre el SKU real del catálogo.
type StockLevelDTO struct {
	RequestedSku string  `json:"requestedSku"`
	Sku          string  `json:"sku"`
	Qty          float64 `json:"qty"`
	Matched      string  `json:"matched"` // exact | fuzzy | none | error
}

// GetStockResponse conserva longitud y orden de la lista pedida.
type GetStockResponse struct {
	Ok    bool            `json:"ok"`
	Count int             `json:"count"`
	Data  []StockLevelDTO `json:"data"`
}
