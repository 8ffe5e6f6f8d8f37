package unas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/pkg/config"
)

const userAgent = "Agrolanc-StockSync/1.0"

// errShape respuesta sintácticamente válida pero con forma no reconocida;
// dispara el camino de reserva por ítem del cliente de lookups.
var errShape = errors.New("unas: forma de respuesta no reconocida")

// Client protocolo XML de bajo nivel contra el API UNAS. Sin estado de
// sesión: el token llega por parámetro (lo gestiona Session).
type Client struct {
	baseURL      string
	apiKey       string
	readTimeout  time.Duration
	writeTimeout time.Duration
	hc           *http.Client
}

// NewClient construye el cliente. Los timeouts vienen de configuración
// (lecturas ~20 s, escrituras ~30 s); un timeout se trata igual que
// cualquier otro fallo de red.
func NewClient(cfg config.UNASConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.APIURL, "/"),
		apiKey:       cfg.APIKey,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		hc:           &http.Client{},
	}
}

// ── Login ─────────────────────────────────────────────────────────────────────

// Login intercambia la clave compartida por un bearer token con expiración.
// Un fallo aquí es fatal para la operación en curso (domain.ErrUpstreamAuth).
func (c *Client) Login(ctx context.Context) (token string, expiry time.Time, err error) {
	doc := newDoc()
	params := doc.CreateElement("Params")
	params.CreateElement("ApiKey").SetText(c.apiKey)
	params.CreateElement("WebshopInfo").SetText("false")

	tree, raw, err := c.postXML(ctx, "/login", "", doc, c.readTimeout)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}

	// El token aparece en rutas distintas según la versión del API.
	tok, _ := firstAt(tree,
		[]string{"Login", "Token"},
		[]string{"Response", "Token"},
		[]string{"Token"},
	).(string)
	if tok == "" {
		return "", time.Time{}, fmt.Errorf("%w: login sin Token en la respuesta: %s",
			domain.ErrUpstreamAuth, snippet(raw))
	}

	expireStr, _ := firstAt(tree,
		[]string{"Login", "Expire"},
		[]string{"Response", "Expire"},
		[]string{"Expire"},
	).(string)

	return tok, parseExpiry(expireStr), nil
}

// parseExpiry interpreta la expiración del token; si no se puede parsear se
// asume la ventana de 2 horas que documenta el API.
func parseExpiry(s string) time.Time {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006.01.02 15:04:05",
		"2006.01.02. 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Now().Add(2 * time.Hour)
}

// ── Consultas de producto ─────────────────────────────────────────────────────

// QueryProduct consulta getProducts con filtro de igualdad exacta sobre el
// SKU (normalizado en servidor) pidiendo solo Sku, Stocks y Variants.
// found=false cuando el catálogo no tiene registro para ese SKU.
func (c *Client) QueryProduct(ctx context.Context, token, sku string) (product record.Record, found bool, err error) {
	doc := newDoc()
	params := doc.CreateElement("Params")
	fields := params.CreateElement("Fields")
	for _, f := range []string{"Sku", "Stocks", "Variants"} {
		fields.CreateElement("Field").SetText(f)
	}
	filter := params.CreateElement("Filters").CreateElement("Filter")
	filter.CreateElement("Field").SetText("Sku")
	filter.CreateElement("Operator").SetText("equals")
	filter.CreateElement("Value").SetText(sku)
	params.CreateElement("Limit").SetText("1")

	tree, _, err := c.postXML(ctx, "/getProducts", token, doc, c.readTimeout)
	if err != nil {
		return nil, false, err
	}
	return firstProduct(tree)
}

// FetchProduct recupera el registro completo vía getProduct (camino lento de
// reserva cuando la respuesta en bloque trae una forma degradada).
func (c *Client) FetchProduct(ctx context.Context, token, sku string) (product record.Record, found bool, err error) {
	tree, _, err := c.fetchProductTree(ctx, token, sku)
	if err != nil {
		return nil, false, err
	}
	return firstProduct(tree)
}

// FetchProductRaw como FetchProduct pero conserva el payload crudo,
// para los endpoints de diagnóstico.
func (c *Client) FetchProductRaw(ctx context.Context, token, sku string) (product record.Record, raw []byte, err error) {
	tree, raw, err := c.fetchProductTree(ctx, token, sku)
	if err != nil {
		return nil, raw, err
	}
	p, _, err := firstProduct(tree)
	return p, raw, err
}

func (c *Client) fetchProductTree(ctx context.Context, token, sku string) (record.Record, []byte, error) {
	doc := newDoc()
	doc.CreateElement("Products").CreateElement("Product").CreateElement("Sku").SetText(sku)
	return c.postXML(ctx, "/getProduct", token, doc, c.readTimeout)
}

// firstProduct extrae el primer Products/Product del árbol. errShape si la
// respuesta no trae el contenedor esperado.
func firstProduct(tree record.Record) (record.Record, bool, error) {
	container := at(tree, "Products")
	if container == nil {
		return nil, false, errShape
	}
	node := at(tree, "Products", "Product")
	list := asList(node)
	if len(list) == 0 {
		return nil, false, nil // contenedor presente pero vacío: no encontrado
	}
	p, ok := list[0].(map[string]any)
	if !ok {
		return nil, false, errShape
	}
	return p, true, nil
}

// ── Escritura de stock ────────────────────────────────────────────────────────

// SubmitStock envía un lote de correcciones {sku, qty} vía setStock y
// devuelve la respuesta parseada del lote. El llamador trocea; aquí un lote
// es una única llamada remota.
func (c *Client) SubmitStock(ctx context.Context, token string, items []recon.UpdateItem) (record.Record, error) {
	doc := newDoc()
	products := doc.CreateElement("Products")
	for _, it := range items {
		p := products.CreateElement("Product")
		p.CreateElement("Action").SetText("modify")
		p.CreateElement("Sku").SetText(it.SKU)
		p.CreateElement("Stocks").CreateElement("Stock").CreateElement("Qty").SetText(it.Quantity.String())
	}

	tree, _, err := c.postXML(ctx, "/setStock", token, doc, c.writeTimeout)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// postXML serializa el documento, hace el POST con deadline fijo y parsea la
// respuesta al árbol genérico. token vacío = llamada sin Authorization (login).
func (c *Client) postXML(ctx context.Context, path, token string, doc *etree.Document, timeout time.Duration) (record.Record, []byte, error) {
	payload, err := doc.WriteToBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("unas: serializar request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("unas: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, http.MethodPost, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // máx 4 MB
	if err != nil {
		return nil, nil, fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, raw, fmt.Errorf("%w: %s devolvió HTTP %d", domain.ErrUpstreamAuth, path, resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		return nil, raw, fmt.Errorf("%w: %s devolvió HTTP %d", domain.ErrUpstreamUnavailable, path, resp.StatusCode)
	}

	tree, err := ParseTree(raw)
	if err != nil {
		return nil, raw, err
	}
	return tree, raw, nil
}

func newDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}
