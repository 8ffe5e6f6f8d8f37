// Package normalize convierte valores de celda arbitrarios (strings con coma
// decimal, números, objetos XML etiquetados) en cantidades canónicas y deriva
// claves normalizadas (SKU, email) para el join de conciliación.
package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// wrapperKeys claves bajo las que un objeto etiquetado envuelve su valor
// escalar (texto de elemento XML, atributos @value/@qty, campo value).
// Se prueban en orden; un nivel de desempaque y recursión.
var wrapperKeys = []string{"#text", "@value", "value", "@qty", "qty"}

// ToQuantity convierte un valor de celda a cantidad canónica. Nunca falla:
// todo lo no parseable degrada a cero. Acepta coma decimal ("12,5" -> 12.5),
// números negativos (significativos, no se recortan a cero) y objetos
// etiquetados de un parser XML genérico.
func ToQuantity(v any) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		return ToQuantity(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	case map[string]any:
		for _, k := range wrapperKeys {
			if inner, ok := t[k]; ok {
				return ToQuantity(inner)
			}
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
