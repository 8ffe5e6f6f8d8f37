package unas

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/pkg/logger"
)

// Confidence cómo se relaciona el identificador devuelto con el pedido.
type Confidence string

const (
	MatchExact Confidence = "exact" // el SKU canónico remoto coincide (sin distinguir mayúsculas)
	MatchFuzzy Confidence = "fuzzy" // hubo registro pero bajo otro identificador canónico
	MatchNone  Confidence = "none"  // sin registro
	MatchError Confidence = "error" // la llamada remota falló para este ítem
)

// LookupResult resultado por clave pedida de un lote de lookups. Se crea por
// lote y no se persiste.
type LookupResult struct {
	RequestedSKU string
	SKU          string // identificador canónico remoto ("" si none/error)
	Quantity     decimal.Decimal
	Matched      Confidence
}

// Resolver puerto de lectura del catálogo para los casos de uso; *Catalog lo
// implementa, los tests inyectan un doble.
type Resolver interface {
	ResolveBatch(ctx context.Context, skus []string) ([]LookupResult, error)
}

// Writer puerto de escritura: un lote de correcciones = una llamada remota.
type Writer interface {
	SubmitStockBatch(ctx context.Context, items []recon.UpdateItem) (record.Record, error)
}

// Catalog cliente de alto nivel del catálogo: sesión + protocolo + pool de
// workers acotado.
type Catalog struct {
	client      *Client
	session     *Session
	concurrency int
	log         *logger.Logger
}

// NewCatalog construye el cliente de catálogo. concurrency acota las
// peticiones salientes simultáneas del pool sea cual sea el tamaño del lote.
func NewCatalog(client *Client, session *Session, concurrency int, log *logger.Logger) *Catalog {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Catalog{client: client, session: session, concurrency: concurrency, log: log}
}

var _ Resolver = (*Catalog)(nil)
var _ Writer = (*Catalog)(nil)

// ResolveBatch resuelve un lote de SKUs contra el catálogo. La salida
// conserva longitud y orden de la entrada aunque los workers terminen en
// cualquier orden (cada worker escribe en su índice). El fallo de un ítem no
// aborta el lote: produce un resultado centinela con Matched=error y
// cantidad cero. Solo el fallo de autenticación aborta todo.
func (c *Catalog) ResolveBatch(ctx context.Context, skus []string) ([]LookupResult, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	token, err := c.session.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	results, err := c.runPool(ctx, token, skus, false)
	if err != nil {
		return nil, err
	}

	// Guarda heurística: si un lote no vacío volvió con todas las cantidades
	// a cero pero sí encontró registros, no nos fiamos de la forma degradada
	// del camino en bloque y repetimos por el camino lento por ítem.
	if shouldFallback(results) {
		c.log.Warn().Int("skus", len(skus)).
			Msg("lote con cantidades todas cero; reintentando por recuperación completa por ítem")
		return c.runPool(ctx, token, skus, true)
	}
	return results, nil
}

// shouldFallback lote no vacío, todo a cero, y al menos un registro hallado.
func shouldFallback(results []LookupResult) bool {
	anyFound := false
	for _, r := range results {
		if !r.Quantity.IsZero() {
			return false
		}
		if r.Matched == MatchExact || r.Matched == MatchFuzzy {
			anyFound = true
		}
	}
	return anyFound
}

// runPool pool de tamaño fijo sobre una cola compartida de índices, unido con
// una única barrera (errgroup). Los workers nunca devuelven error: el
// aislamiento de fallos es por ítem.
func (c *Catalog) runPool(ctx context.Context, token string, skus []string, full bool) ([]LookupResult, error) {
	results := make([]LookupResult, len(skus))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sku := range skus {
		i, sku := i, sku
		g.Go(func() error {
			results[i] = c.resolveOne(gctx, token, sku, full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveOne un lookup con su clasificación de confianza. full fuerza el
// camino lento getProduct; si no, se usa getProducts y se cae a getProduct
// solo cuando la forma de la respuesta no se reconoce.
func (c *Catalog) resolveOne(ctx context.Context, token, sku string, full bool) LookupResult {
	requested := strings.TrimSpace(sku)
	res := LookupResult{RequestedSKU: requested, Quantity: decimal.Zero}

	var (
		product record.Record
		found   bool
		err     error
	)
	if full {
		product, found, err = c.client.FetchProduct(ctx, token, requested)
	} else {
		product, found, err = c.client.QueryProduct(ctx, token, requested)
		if errors.Is(err, errShape) {
			product, found, err = c.client.FetchProduct(ctx, token, requested)
		}
	}

	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("sku", requested).Msg("lookup fallido; se continúa con el resto del lote")
		res.Matched = MatchError
		return res
	case !found:
		res.Matched = MatchNone
		return res
	}

	remoteSKU := strings.TrimSpace(record.FieldString(product, "Sku", "sku"))
	if remoteSKU == "" {
		remoteSKU = requested
	}
	res.SKU = remoteSKU
	res.Quantity = record.ExtractQuantity(product)
	if strings.EqualFold(remoteSKU, requested) {
		res.Matched = MatchExact
	} else {
		res.Matched = MatchFuzzy
	}
	return res
}

// SubmitStockBatch escribe un lote vía setStock con token de sesión vigente.
func (c *Catalog) SubmitStockBatch(ctx context.Context, items []recon.UpdateItem) (record.Record, error) {
	token, err := c.session.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	return c.client.SubmitStock(ctx, token, items)
}

// ProductInspection datos de diagnóstico de un producto del catálogo.
type ProductInspection struct {
	Found     bool
	RemoteSKU string
	Quantity  decimal.Decimal
	Paths     []record.QuantityPath
	RawHead   string
}

// InspectProduct recuperación completa de un SKU con la cantidad extraída y
// las rutas de cantidad halladas; para los endpoints de depuración.
func (c *Catalog) InspectProduct(ctx context.Context, sku string) (*ProductInspection, error) {
	token, err := c.session.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	product, raw, err := c.client.FetchProductRaw(ctx, token, strings.TrimSpace(sku))
	if err != nil && !errors.Is(err, errShape) {
		return nil, err
	}

	insp := &ProductInspection{RawHead: snippet(raw)}
	if product != nil {
		insp.Found = true
		insp.RemoteSKU = strings.TrimSpace(record.FieldString(product, "Sku", "sku"))
		insp.Quantity = record.ExtractQuantity(product)
		insp.Paths = record.QuantityPaths(product)
	}
	return insp, nil
}
