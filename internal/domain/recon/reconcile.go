package recon

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agrolanc/stocksync/internal/domain/record"
)

// Pair una clave presente en ambas fuentes, con las dos cantidades para el
// informe (la partición "differing" las necesita ambas).
type Pair struct {
	Key       string
	NameA     string
	NameB     string
	QuantityA decimal.Decimal
	QuantityB decimal.Decimal
}

// Result las cuatro particiones disjuntas sobre la unión de claves.
// Invariante: toda clave presente en alguna fuente aparece en exactamente una
// partición; Equal+Differing cubren exactamente la intersección.
type Result struct {
	Equal     []Pair
	Differing []Pair
	LeftOnly  []Aggregate
	RightOnly []Aggregate
}

// Counts tamaños por partición, para logging y respuestas.
func (r *Result) Counts() (equal, differing, leftOnly, rightOnly int) {
	return len(r.Equal), len(r.Differing), len(r.LeftOnly), len(r.RightOnly)
}

// Reconcile une dos conjuntos de filas por clave normalizada y clasifica cada
// clave. Igualdad exacta de cantidades, sin épsilon: son conteos de stock.
// La pertenencia a particiones es determinista e independiente del orden de
// las filas de entrada (particiones ordenadas por clave).
func Reconcile(a, b []record.Record, optsA, optsB AggregateOptions) *Result {
	aggA := AggregateRows(a, optsA)
	aggB := AggregateRows(b, optsB)
	return ReconcileAggregates(aggA, aggB)
}

// ReconcileAggregates clasifica a partir de los agregados ya construidos
// (útil cuando un lado viene refinado con datos vivos del catálogo).
func ReconcileAggregates(aggA, aggB map[string]*Aggregate) *Result {
	keys := make([]string, 0, len(aggA)+len(aggB))
	seen := make(map[string]struct{}, len(aggA)+len(aggB))
	for k := range aggA {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range aggB {
		if _, dup := seen[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := &Result{}
	for _, k := range keys {
		ea, inA := aggA[k]
		eb, inB := aggB[k]
		switch {
		case inA && inB:
			pair := Pair{
				Key:       k,
				NameA:     ea.Name,
				NameB:     eb.Name,
				QuantityA: ea.Quantity,
				QuantityB: eb.Quantity,
			}
			if ea.Quantity.Equal(eb.Quantity) {
				res.Equal = append(res.Equal, pair)
			} else {
				res.Differing = append(res.Differing, pair)
			}
		case inA:
			res.LeftOnly = append(res.LeftOnly, *ea)
		default:
			res.RightOnly = append(res.RightOnly, *eb)
		}
	}
	return res
}
