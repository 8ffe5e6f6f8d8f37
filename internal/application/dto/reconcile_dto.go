package dto

// ReconcileCounts tamaños de las cuatro particiones disjuntas.
type ReconcileCounts struct {
	Equal         int `json:"equal"`
	Differing     int `json:"differing"`
	WarehouseOnly int `json:"warehouseOnly"`
	WebshopOnly   int `json:"webshopOnly"`
}

// ReconcileDiffDTO clave presente en ambos lados con cantidades distintas.
type ReconcileDiffDTO struct {
	Sku          string  `json:"sku"`
	Name         string  `json:"name"`
	WarehouseQty float64 `json:"warehouseQty"`
	WebshopQty   float64 `json:"webshopQty"`
}

// ReconcileOnlyDTO clave presente en un solo lado.
type ReconcileOnlyDTO struct {
	Sku  string  `json:"sku"`
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
}

// ReconcileResponse resultado de conciliar las dos tablas subidas, con la
// previsualización de correcciones derivada de las particiones.
type ReconcileResponse struct {
	Ok            bool               `json:"ok"`
	Counts        ReconcileCounts    `json:"counts"`
	Differing     []ReconcileDiffDTO `json:"differing"`
	WarehouseOnly []ReconcileOnlyDTO `json:"warehouseOnly"`
	WebshopOnly   []ReconcileOnlyDTO `json:"webshopOnly"`
	Updates       []StockUpdateDTO   `json:"updates"`
}
