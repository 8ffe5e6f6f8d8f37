package recon

import "github.com/shopspring/decimal"

// UpdateItem una corrección a empujar al catálogo remoto. Propiedad
// transitoria del despachador durante un ciclo de envío; no se retiene.
type UpdateItem struct {
	SKU      string
	Quantity decimal.Decimal
}

// UpdateOptions política de derivación de correcciones.
type UpdateOptions struct {
	// IncludeLeftOnly: por defecto las claves que solo existen en la fuente A
	// se excluyen (no hay registro remoto que corregir). Incluirlas como
	// altas es una decisión de negocio, por eso es opción explícita y no una
	// omisión cableada.
	IncludeLeftOnly bool
}

// DeriveUpdates deriva el conjunto mínimo e idempotente de correcciones a
// partir de las particiones:
//
//   - differing  -> cantidad de la fuente B como objetivo autoritativo
//   - rightOnly  -> cantidad cero (existe en el sistema destino pero no en el
//     origen: se limpia su conteo)
//   - equal      -> excluido (no-op)
//   - leftOnly   -> excluido salvo IncludeLeftOnly (ver UpdateOptions)
//
// Si una clave apareciera dos veces gana el valor calculado más tarde; el
// conjunto final tiene claves únicas.
func DeriveUpdates(res *Result, opts UpdateOptions) []UpdateItem {
	var items []UpdateItem
	for _, p := range res.Differing {
		items = append(items, UpdateItem{SKU: p.Key, Quantity: p.QuantityB})
	}
	for _, agg := range res.RightOnly {
		items = append(items, UpdateItem{SKU: agg.Key, Quantity: decimal.Zero})
	}
	if opts.IncludeLeftOnly {
		for _, agg := range res.LeftOnly {
			items = append(items, UpdateItem{SKU: agg.Key, Quantity: agg.Quantity})
		}
	}
	return DedupeUpdates(items)
}

// DedupeUpdates claves únicas, gana la última escritura, conserva la posición
// de la primera aparición.
func DedupeUpdates(items []UpdateItem) []UpdateItem {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int, len(items))
	out := make([]UpdateItem, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.SKU]; ok {
			out[i].Quantity = it.Quantity
			continue
		}
		index[it.SKU] = len(out)
		out = append(out, it)
	}
	return out
}
