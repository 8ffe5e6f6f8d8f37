// Package record define la forma genérica de fila/registro sin esquema con
// la que trabaja el motor de conciliación: un mapping de nombre de campo a
// valor escalar o anidado, tal como llega de un export tabular o del parser
// XML del catálogo remoto. Los exports cambian de cabeceras con el tiempo,
// así que el acceso a campos es por lista de candidatos en orden de
// prioridad en vez de acceso condicional disperso.
package record

import (
	"sort"
	"strconv"
	"strings"
)

// Record es una fila sin esquema fijo. Alias (no tipo nombrado) para que los
// literales map[string]any del parser XML y de los tests encajen directo.
type Record = map[string]any

// Field busca el primer campo presente probando los candidatos en orden.
// Tolera variantes de cabecera con espacios al inicio/fin ("Cikkszám " vs
// "Cikkszám"). Devuelve false si ningún candidato existe.
func Field(rec Record, candidates ...string) (any, bool) {
	for _, c := range candidates {
		if v, ok := rec[c]; ok {
			return v, true
		}
	}
	// Segunda pasada tolerante: cabeceras con espacios accidentales.
	// Orden de claves estable para que el resultado sea determinista.
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, c := range candidates {
		for _, k := range keys {
			if strings.TrimSpace(k) == c {
				return rec[k], true
			}
		}
	}
	return nil, false
}

// FieldString como Field pero convierte el valor a string ("" si no existe).
func FieldString(rec Record, candidates ...string) string {
	v, ok := Field(rec, candidates...)
	if !ok {
		return ""
	}
	return String(v)
}

// String convierte un valor de celda a su representación textual.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
