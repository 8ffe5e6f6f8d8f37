package record

import "strconv"

// VisitFunc recibe cada entrada clave→valor encontrada durante el recorrido.
// path incluye la clave actual como último elemento; los índices de secuencia
// aparecen como posiciones decimales ("Stocks", "Stock", "0", "Qty").
type VisitFunc func(path []string, key string, value any)

// Walk recorre en profundidad un valor de árbol genérico (escalar, mapping o
// secuencia) y visita cada entrada de mapping. El predicado de qué claves
// interesan vive en el visitante, no aquí: la traversal es reutilizable y se
// testea por separado.
func Walk(v any, visit VisitFunc) {
	walk(v, nil, visit)
}

func walk(v any, path []string, visit VisitFunc) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			// Copia explícita: el visitante puede retener el path.
			p := make([]string, len(path)+1)
			copy(p, path)
			p[len(path)] = k
			visit(p, k, val)
			switch val.(type) {
			case map[string]any, []any:
				walk(val, p, visit)
			}
		}
	case []any:
		for i, el := range t {
			switch el.(type) {
			case map[string]any, []any:
				p := make([]string, len(path)+1)
				copy(p, path)
				p[len(path)] = strconv.Itoa(i)
				walk(el, p, visit)
			}
		}
	}
}

// toList normaliza un nodo a secuencia: una secuencia se devuelve tal cual y
// un elemento suelto se trata como secuencia de uno (el parser XML colapsa
// los hijos únicos).
func toList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
