package dto

// StockUpdateDTO una corrección {sku, qty} tal como viaja en el JSON.
type StockUpdateDTO struct {
	Sku string  `json:"sku"`
	Qty float64 `json:"qty"`
}

// StockSyncRequest cuerpo de POST /api/stock-sync. FilterSkus restringe el
// lote a esos SKUs; Limit corta después del filtro; DryRun no toca el
// catálogo remoto.
type StockSyncRequest struct {
	Updates    []StockUpdateDTO `json:"updates"`
	DryRun     bool             `json:"dryRun"`
	FilterSkus []string         `json:"filterSkus"`
	Limit      int              `json:"limit"`
}

// StockSyncDryRunResponse previsualización: cuántos ítems se escribirían y
// una muestra de los primeros cinco.
type StockSyncDryRunResponse struct {
	Ok     bool             `json:"ok"`
	DryRun bool             `json:"dryRun"`
	Count  int              `json:"count"`
	Sample []StockUpdateDTO `json:"sample"`
	Note   string           `json:"note,omitempty"`
}

// StockSyncResponse resultado de una escritura real por lotes.
type StockSyncResponse struct {
	Ok      bool             `json:"ok"`
	Updated int              `json:"updated"`
	Batches int              `json:"batches"`
	Results []map[string]any `json:"results"`
}
