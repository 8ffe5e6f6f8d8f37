package record

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agrolanc/stocksync/internal/domain/normalize"
)

// IsQuantityKey decide si un nombre de atributo "significa cantidad". El
// catálogo remoto no tiene esquema estable, así que el criterio es textual:
// contiene qty/quantity/available o es exactamente stock/stocks/onhand/stockqty.
func IsQuantityKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "qty") ||
		strings.Contains(k, "quantity") ||
		strings.Contains(k, "available") ||
		k == "stock" || k == "stocks" || k == "onhand" || k == "stockqty"
}

// SumQuantityKeys suma recursivamente todo atributo con nombre de cantidad a
// cualquier profundidad del árbol. Es el fallback más amplio del extractor:
// garantiza extraer alguna señal incluso de esquemas no anticipados.
func SumQuantityKeys(v any) decimal.Decimal {
	total := decimal.Zero
	Walk(v, func(_ []string, key string, value any) {
		if IsQuantityKey(key) {
			total = total.Add(normalize.ToQuantity(value))
		}
	})
	return total
}

// ExtractQuantity calcula la cantidad autoritativa de un registro de producto
// del catálogo. Algoritmo por niveles, gana la primera suma distinta de cero:
//
//  1. contenedor Stocks directo (un Stock suelto cuenta como secuencia de uno)
//  2. contenedor Variants: por variante, su Stocks anidado si existe, si no
//     la suma recursiva bajo la variante
//  3. barrido recursivo del registro completo
//
// Un cero real es indistinguible de "no encontrado", así que cada nivel solo
// se queda con su resultado cuando la suma es distinta de cero (negativos
// incluidos); una cantidad legítimamente cero cae al barrido más amplio.
// Aproximación asumida, no un bug escondido.
func ExtractQuantity(rec Record) decimal.Decimal {
	if rec == nil {
		return decimal.Zero
	}

	// 1) Stocks
	if stocks, ok := Field(rec, "Stocks", "stocks"); ok && stocks != nil {
		sum := decimal.Zero
		for _, entry := range stockEntries(stocks) {
			sum = sum.Add(SumQuantityKeys(entry))
		}
		if !sum.IsZero() {
			return sum // puede ser negativa
		}
	}

	// 2) Variants
	if variants, ok := Field(rec, "Variants", "variants"); ok && variants != nil {
		node := variants
		if m, isMap := variants.(map[string]any); isMap {
			if inner, found := Field(m, "Variant", "variant"); found {
				node = inner
			}
		}
		sum := decimal.Zero
		for _, v := range toList(node) {
			sum = sum.Add(variantQuantity(v))
		}
		if !sum.IsZero() {
			return sum
		}
	}

	// 3) barrido completo
	return SumQuantityKeys(rec)
}

// variantQuantity prefiere el contenedor Stocks propio de la variante; si no
// existe, suma cualquier campo de cantidad bajo la variante.
func variantQuantity(v any) decimal.Decimal {
	m, ok := v.(map[string]any)
	if !ok {
		return SumQuantityKeys(v)
	}
	if stocks, found := Field(m, "Stocks", "stocks"); found && stocks != nil {
		sum := decimal.Zero
		for _, entry := range stockEntries(stocks) {
			sum = sum.Add(SumQuantityKeys(entry))
		}
		return sum
	}
	return SumQuantityKeys(m)
}

// stockEntries normaliza un contenedor Stocks a la secuencia de entradas
// Stock. Si el contenedor no envuelve un hijo Stock, él mismo es la entrada.
func stockEntries(container any) []any {
	if m, ok := container.(map[string]any); ok {
		if inner, found := Field(m, "Stock", "stock"); found {
			return toList(inner)
		}
		return []any{m}
	}
	return toList(container)
}

// QuantityPath una hoja numérica con nombre de cantidad y su ruta en el árbol.
type QuantityPath struct {
	Path  string          `json:"path"`
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// QuantityPaths lista, para diagnóstico, todas las hojas numéricas cuyo
// nombre significa cantidad, ordenadas por valor descendente. Excluye claves
// "Minimum…" (MinimumQty no es stock disponible).
func QuantityPaths(rec Record) []QuantityPath {
	var out []QuantityPath
	Walk(rec, func(path []string, key string, value any) {
		switch value.(type) {
		case map[string]any, []any:
			return // solo hojas
		}
		if !IsQuantityKey(key) || strings.Contains(strings.ToLower(key), "minimum") {
			return
		}
		s := strings.TrimSpace(String(value))
		if s == "" {
			return
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return
		}
		out = append(out, QuantityPath{Path: strings.Join(path, "."), Key: key, Value: d})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	return out
}
