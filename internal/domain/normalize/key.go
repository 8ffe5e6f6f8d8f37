package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks descompone a NFD, elimina las marcas diacríticas combinantes
// (categoría Mn) y recompone a NFC. "Árvíztűrő" -> "Arvizturo".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SKUKey deriva la clave canónica de un cikkszám/SKU: trim + mayúsculas.
// Cadena vacía tras normalizar significa "sin identificador" y la fila se
// excluye de la agregación.
func SKUKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// EmailKey deriva la clave canónica de una dirección de correo:
//   - toma la primera dirección cuando la celda trae varias separadas por ';' o ','
//   - recorta espacios, colapsa rachas de '.' en una sola y elimina el '.' final
//     (artefactos frecuentes de export: "example..com", "x.com.")
//   - colapsa '@' repetidas en una sola
//   - minúsculas y sin diacríticos (descomposición canónica Unicode)
//
// Es una función pura e idempotente: EmailKey(EmailKey(x)) == EmailKey(x).
func EmailKey(raw string) string {
	s := raw
	if i := strings.IndexAny(s, ";,"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	s = collapseRuns(s, '.')
	s = strings.TrimRight(s, ".")
	s = collapseRuns(s, '@')
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return s
}

// collapseRuns reduce rachas consecutivas del carácter c a una sola aparición.
func collapseRuns(s string, c rune) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == c {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
