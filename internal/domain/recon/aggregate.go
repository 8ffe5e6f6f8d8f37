// Package recon implementa el motor de conciliación: agrega dos conjuntos de
// filas heterogéneas por clave normalizada, los particiona en cuatro
// categorías disjuntas y deriva el conjunto mínimo de correcciones para el
// catálogo remoto.
package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agrolanc/stocksync/internal/domain/normalize"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

// AggregateOptions describe cómo leer una fuente: qué cabeceras candidatas
// forman la clave, la cantidad y el nombre, y los modos opcionales de
// pre-filtrado y sustitución.
type AggregateOptions struct {
	// KeyFields cabeceras candidatas del identificador, en orden de prioridad.
	KeyFields []string
	// QuantityFields cabeceras candidatas de la cantidad primaria.
	QuantityFields []string
	// NameFields cabeceras candidatas del nombre para mostrar.
	NameFields []string

	// LocationField + AllowedLocations: pre-filtro de filas por código de
	// ubicación/categoría. Una fila con ubicación vacía cuenta como "sin
	// ámbito" y siempre entra. Pre-filtro, no post-filtro: las filas
	// excluidas jamás aportan a la suma.
	LocationField    string
	AllowedLocations []string

	// FallbackQuantityFields: cuando la cantidad primaria de UNA fila es
	// negativa se sustituye por el valor del campo secundario de esa fila
	// ("disponible" puede ser negativo por backorders; "físico" no).
	FallbackQuantityFields []string

	// KeyNormalizer deriva la clave canónica del identificador crudo.
	// Por defecto normalize.SKUKey; para contactos, normalize.EmailKey.
	KeyNormalizer func(string) string
}

func (o AggregateOptions) normalizer() func(string) string {
	if o.KeyNormalizer != nil {
		return o.KeyNormalizer
	}
	return normalize.SKUKey
}

// Aggregate acumulado por clave normalizada dentro de una fuente: un mismo
// identificador puede aparecer en varias filas (varias ubicaciones de
// almacén) y sus cantidades se suman.
type Aggregate struct {
	Key      string
	Name     string
	Quantity decimal.Decimal
	Rows     int
}

// AggregateRows construye el mapa clave→agregado de una fuente. Asociativa e
// independiente del orden: reordenar las filas de entrada no cambia el
// resultado. Filas sin campo clave se saltan sin error (los formatos de
// export cambian de cabeceras con el tiempo).
func AggregateRows(rows []record.Record, opts AggregateOptions) map[string]*Aggregate {
	keyFn := opts.normalizer()
	allow := allowSet(opts.AllowedLocations)

	out := make(map[string]*Aggregate)
	for _, row := range rows {
		if !allowedByLocation(row, opts.LocationField, allow) {
			continue
		}

		key := keyFn(record.FieldString(row, opts.KeyFields...))
		if key == "" {
			continue // sin identificador
		}

		qty := rowQuantity(row, opts)

		agg, ok := out[key]
		if !ok {
			agg = &Aggregate{Key: key, Quantity: decimal.Zero}
			out[key] = agg
		}
		agg.Quantity = agg.Quantity.Add(qty)
		agg.Rows++
		if agg.Name == "" {
			agg.Name = strings.TrimSpace(record.FieldString(row, opts.NameFields...))
		}
	}
	return out
}

// rowQuantity cantidad de una fila, con el modo de sustitución de negativos.
func rowQuantity(row record.Record, opts AggregateOptions) decimal.Decimal {
	primary, _ := record.Field(row, opts.QuantityFields...)
	qty := normalize.ToQuantity(primary)
	if qty.IsNegative() && len(opts.FallbackQuantityFields) > 0 {
		if secondary, ok := record.Field(row, opts.FallbackQuantityFields...); ok {
			return normalize.ToQuantity(secondary)
		}
	}
	return qty
}

func allowSet(locations []string) map[string]struct{} {
	if len(locations) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		set[strings.ToUpper(strings.TrimSpace(loc))] = struct{}{}
	}
	return set
}

func allowedByLocation(row record.Record, field string, allow map[string]struct{}) bool {
	if allow == nil || field == "" {
		return true
	}
	loc := strings.ToUpper(strings.TrimSpace(record.FieldString(row, field)))
	if loc == "" {
		return true // sin ámbito: siempre entra
	}
	_, ok := allow[loc]
	return ok
}
