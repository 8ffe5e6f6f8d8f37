package usecase

import (
	"context"

	"github.com/agrolanc/stocksync/internal/application/dto"
	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/infrastructure/unas"
)

// CatalogReader lecturas del catálogo que necesita la consulta de stock;
// *unas.Catalog lo implementa.
type CatalogReader interface {
	unas.Resolver
	InspectProduct(ctx context.Context, sku string) (*unas.ProductInspection, error)
}

// StockLookupUseCase consulta niveles de stock por lote y expone los
// diagnósticos de extracción.
type StockLookupUseCase struct {
	catalog CatalogReader
}

// NewStockLookupUseCase construye el caso de uso.
func NewStockLookupUseCase(catalog CatalogReader) *StockLookupUseCase {
	return &StockLookupUseCase{catalog: catalog}
}

// GetStock resuelve un lote de SKUs. La respuesta conserva longitud y orden
// de la lista pedida; el campo Sku trae el identificador canónico remoto
// para poder escribir después sobre el SKU real del catálogo.
func (uc *StockLookupUseCase) GetStock(ctx context.Context, skus []string) ([]dto.StockLevelDTO, error) {
	if len(skus) == 0 {
		return nil, domain.ErrInvalidInput
	}
	results, err := uc.catalog.ResolveBatch(ctx, skus)
	if err != nil {
		return nil, err
	}

	data := make([]dto.StockLevelDTO, len(results))
	for i, r := range results {
		sku := r.SKU
		if sku == "" {
			sku = r.RequestedSKU
		}
		data[i] = dto.StockLevelDTO{
			RequestedSku: r.RequestedSKU,
			Sku:          sku,
			Qty:          r.Quantity.InexactFloat64(),
			Matched:      string(r.Matched),
		}
	}
	return data, nil
}

// DebugProduct diagnóstico de la recuperación de un SKU: si hay registro,
// bajo qué identificador y qué cantidad extrae el analizador.
func (uc *StockLookupUseCase) DebugProduct(ctx context.Context, sku string) (*dto.DebugProductResponse, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	insp, err := uc.catalog.InspectProduct(ctx, sku)
	if err != nil {
		return nil, err
	}
	return &dto.DebugProductResponse{
		Ok:           true,
		Found:        insp.Found,
		SkuEcho:      sku,
		SkuFromApi:   insp.RemoteSKU,
		ExtractedQty: insp.Quantity.InexactFloat64(),
		XmlHead:      insp.RawHead,
	}, nil
}

// maxQtyPaths tope de rutas devueltas; para inspección manual sobra.
const maxQtyPaths = 50

// DebugQtyPaths lista las rutas de cantidad del registro completo de un SKU,
// ordenadas por valor descendente.
func (uc *StockLookupUseCase) DebugQtyPaths(ctx context.Context, sku string) (*dto.DebugQtyPathsResponse, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	insp, err := uc.catalog.InspectProduct(ctx, sku)
	if err != nil {
		return nil, err
	}

	paths := insp.Paths
	total := len(paths)
	if len(paths) > maxQtyPaths {
		paths = paths[:maxQtyPaths]
	}
	top := make([]dto.QtyPathDTO, len(paths))
	for i, p := range paths {
		top[i] = dto.QtyPathDTO{Path: p.Path, Key: p.Key, Value: p.Value.InexactFloat64()}
	}
	return &dto.DebugQtyPathsResponse{
		Ok:            true,
		SkuEcho:       sku,
		SkuFromApi:    insp.RemoteSKU,
		TopQtyPaths:   top,
		TotalQtyPaths: total,
	}, nil
}
