// Package unas implementa el protocolo XML del catálogo remoto UNAS: login
// con token cacheado, consulta de productos con filtro exacto por SKU,
// recuperación completa por ítem y escritura de stock por lotes; encima, el
// cliente de lookups con pool de workers acotado.
package unas

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

// Convención del árbol genérico (misma forma que consume el extractor de
// cantidades): elemento con solo texto -> string; elemento con hijos ->
// map[string]any; hijos repetidos -> []any; atributos -> clave "@nombre";
// texto de un elemento mixto -> clave "#text".

// ParseTree parsea una respuesta XML arbitraria al árbol genérico. El error
// lleva un fragmento del payload crudo para diagnóstico del operador.
func ParseTree(raw []byte) (record.Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrParse, snippet(raw))
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sin elemento raíz: %s", domain.ErrParse, snippet(raw))
	}
	return record.Record{root.Tag: convertElement(root)}, nil
}

// convertElement convierte un elemento a valor del árbol genérico.
func convertElement(el *etree.Element) any {
	children := el.ChildElements()
	text := strings.TrimSpace(el.Text())

	if len(children) == 0 && len(el.Attr) == 0 {
		return text
	}

	node := record.Record{}
	for _, a := range el.Attr {
		node["@"+a.Key] = a.Value
	}
	if text != "" {
		node["#text"] = text
	}
	for _, child := range children {
		v := convertElement(child)
		existing, seen := node[child.Tag]
		switch {
		case !seen:
			node[child.Tag] = v
		default:
			if list, isList := existing.([]any); isList {
				node[child.Tag] = append(list, v)
			} else {
				node[child.Tag] = []any{existing, v}
			}
		}
	}
	return node
}

// at desciende por claves anidadas; nil si alguna falta o no es mapping.
func at(tree record.Record, path ...string) any {
	var cur any = tree
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// firstAt prueba varias rutas y devuelve el primer valor no vacío.
func firstAt(tree record.Record, paths ...[]string) any {
	for _, p := range paths {
		if v := at(tree, p...); v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			return v
		}
	}
	return nil
}

// asList normaliza un nodo a secuencia (hijo único colapsado -> uno).
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// snippet cabeza del payload crudo para mensajes de diagnóstico.
func snippet(raw []byte) string {
	const max = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
