package usecase

import (
	"context"
	"strings"

	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/internal/infrastructure/unas"
	"github.com/agrolanc/stocksync/pkg/logger"
)

// DispatchUseCase empuja lotes de correcciones de stock al catálogo remoto.
// Los chunks se envían en secuencia, nunca en paralelo, para acotar la carga
// del endpoint de escritura y poder razonar sobre fallos parciales.
type DispatchUseCase struct {
	writer    unas.Writer
	chunkSize int
	log       *logger.Logger
}

// NewDispatchUseCase construye el caso de uso. chunkSize es el tamaño máximo
// de lote por llamada remota.
func NewDispatchUseCase(writer unas.Writer, chunkSize int, log *logger.Logger) *DispatchUseCase {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &DispatchUseCase{writer: writer, chunkSize: chunkSize, log: log}
}

// DispatchOptions opciones de un ciclo de envío.
type DispatchOptions struct {
	DryRun   bool
	OnlyKeys []string // allow-list de SKUs; vacío = sin filtro
	Limit    int      // corte a los primeros N tras el filtro; <=0 = sin corte
}

// DispatchOutcome resultado de un ciclo de envío. En dry-run solo se
// rellenan Count, Sample y Trimmed.
type DispatchOutcome struct {
	DryRun  bool
	Count   int
	Sample  []recon.UpdateItem
	Trimmed bool // el filtro o el límite descartaron ítems
	Batches int
	Results []record.Record
}

// Dispatch sanea, deduplica, filtra y corta el conjunto de correcciones y lo
// envía (o lo previsualiza con DryRun). Lista vacía de entrada es error de
// validación; lista vacía tras filtro/límite solo lo es en envío real. El
// dry-run es puro: no toca la red.
func (uc *DispatchUseCase) Dispatch(ctx context.Context, updates []recon.UpdateItem, opts DispatchOptions) (*DispatchOutcome, error) {
	if len(updates) == 0 {
		return nil, domain.ErrInvalidInput
	}

	items := sanitizeUpdates(updates)
	sanitized := len(items)
	items = filterByKeys(items, opts.OnlyKeys)
	trimmed := len(items) != sanitized
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
		trimmed = true
	}

	if opts.DryRun {
		sample := items
		if len(sample) > 5 {
			sample = sample[:5]
		}
		return &DispatchOutcome{DryRun: true, Count: len(items), Sample: sample, Trimmed: trimmed}, nil
	}

	if len(items) == 0 {
		return nil, domain.ErrEmptyUpdateSet
	}

	outcome := &DispatchOutcome{Count: len(items), Trimmed: trimmed}
	for start := 0; start < len(items); start += uc.chunkSize {
		end := start + uc.chunkSize
		if end > len(items) {
			end = len(items)
		}
		resp, err := uc.writer.SubmitStockBatch(ctx, items[start:end])
		if err != nil {
			return nil, err
		}
		outcome.Batches++
		outcome.Results = append(outcome.Results, resp)
	}
	uc.log.Info().Int("items", len(items)).Int("batches", outcome.Batches).Msg("correcciones de stock enviadas")
	return outcome, nil
}

// DispatchPartitions deriva las correcciones desde las particiones de una
// conciliación y las despacha con la misma política que Dispatch.
func (uc *DispatchUseCase) DispatchPartitions(ctx context.Context, res *recon.Result, derive recon.UpdateOptions, opts DispatchOptions) (*DispatchOutcome, error) {
	items := recon.DeriveUpdates(res, derive)
	if len(items) == 0 {
		if opts.DryRun {
			return &DispatchOutcome{DryRun: true}, nil
		}
		return nil, domain.ErrEmptyUpdateSet
	}
	return uc.Dispatch(ctx, items, opts)
}

// sanitizeUpdates clave a mayúsculas sin espacios; sin clave no hay ítem.
// Claves repetidas: gana la última.
func sanitizeUpdates(items []recon.UpdateItem) []recon.UpdateItem {
	clean := make([]recon.UpdateItem, 0, len(items))
	for _, it := range items {
		sku := strings.ToUpper(strings.TrimSpace(it.SKU))
		if sku == "" {
			continue
		}
		clean = append(clean, recon.UpdateItem{SKU: sku, Quantity: it.Quantity})
	}
	return recon.DedupeUpdates(clean)
}

func filterByKeys(items []recon.UpdateItem, only []string) []recon.UpdateItem {
	if len(only) == 0 {
		return items
	}
	allow := make(map[string]struct{}, len(only))
	for _, k := range only {
		allow[strings.ToUpper(strings.TrimSpace(k))] = struct{}{}
	}
	kept := items[:0]
	for _, it := range items {
		if _, ok := allow[it.SKU]; ok {
			kept = append(kept, it)
		}
	}
	return kept
}
