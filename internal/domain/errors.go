package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Taxonomía: ErrInvalidInput y ErrEmptyUpdateSet son errores de validación
// (HTTP 400, sin reintento); ErrUpstreamAuth aborta la operación completa;
// ErrUpstreamUnavailable y ErrParse se recuperan por ítem donde sea posible.
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrEmptyUpdateSet      = errors.New("lista de updates vacía")
	ErrUpstreamAuth        = errors.New("autenticación contra el catálogo remoto fallida")
	ErrUpstreamUnavailable = errors.New("catálogo remoto no disponible")
	ErrParse               = errors.New("respuesta remota no parseable")
)
