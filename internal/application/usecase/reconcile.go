package usecase

import (
	"context"

	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/internal/infrastructure/unas"
	"github.com/agrolanc/stocksync/pkg/config"
	"github.com/agrolanc/stocksync/pkg/logger"
)

// Cabeceras de las exportaciones fuente. El ERP del almacén y el webshop
// nombran sus columnas distinto; las variantes con y sin espacio final se
// toleran en la capa de registros.
var (
	warehouseOpts = recon.AggregateOptions{
		KeyFields:              []string{"Cikk-kód", "Cikkszám"},
		QuantityFields:         []string{"Szabad"},
		FallbackQuantityFields: []string{"Szabad készlet"},
		NameFields:             []string{"Megnevezés"},
		LocationField:          "Raktár",
	}
	webshopOpts = recon.AggregateOptions{
		KeyFields:      []string{"Cikkszám"},
		QuantityFields: []string{"Raktárkészlet"},
		NameFields:     []string{"Termék Név", "Termék név"},
	}
)

// ReconcileUseCase cruza la exportación del almacén con la del webshop y
// deriva la previsualización de correcciones.
type ReconcileUseCase struct {
	resolver  unas.Resolver
	locations []string
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso. resolver puede ser nil si no
// hay catálogo remoto configurado; entonces Refresh se ignora.
func NewReconcileUseCase(resolver unas.Resolver, cfg config.SyncConfig, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{resolver: resolver, locations: cfg.WarehouseLocations, log: log}
}

// ReconcileInput las dos tablas ya parseadas más la política del ciclo.
type ReconcileInput struct {
	Warehouse []record.Record
	Webshop   []record.Record
	// Refresh refina el lado webshop de las diferencias con lecturas en vivo
	// del catálogo antes de derivar correcciones.
	Refresh bool
	// IncludeLeftOnly incluye como altas las claves que solo existen en el
	// almacén (ver recon.UpdateOptions).
	IncludeLeftOnly bool
}

// ReconcileOutput particiones más el conjunto de correcciones derivado.
type ReconcileOutput struct {
	Result  *recon.Result
	Updates []recon.UpdateItem
}

// Reconcile agrega ambos lados, particiona por clave normalizada y deriva
// las correcciones. El lado A es el almacén y el B el webshop.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, in ReconcileInput) (*ReconcileOutput, error) {
	wOpts := warehouseOpts
	wOpts.AllowedLocations = uc.locations

	result := recon.Reconcile(in.Warehouse, in.Webshop, wOpts, webshopOpts)

	if in.Refresh && uc.resolver != nil {
		if err := uc.refreshDiffering(ctx, result); err != nil {
			return nil, err
		}
	}

	out := &ReconcileOutput{
		Result:  result,
		Updates: recon.DeriveUpdates(result, recon.UpdateOptions{IncludeLeftOnly: in.IncludeLeftOnly}),
	}
	equal, differing, leftOnly, rightOnly := result.Counts()
	uc.log.Info().
		Int("equal", equal).Int("differing", differing).
		Int("warehouse_only", leftOnly).Int("webshop_only", rightOnly).
		Int("updates", len(out.Updates)).
		Msg("conciliación completada")
	return out, nil
}

// refreshDiffering sustituye la cantidad webshop de cada diferencia por la
// lectura en vivo del catálogo; las parejas que con el dato fresco quedan
// iguales pasan a la partición equal. Los lookups none/error dejan la
// pareja como estaba: la exportación es lo mejor que tenemos.
func (uc *ReconcileUseCase) refreshDiffering(ctx context.Context, result *recon.Result) error {
	if len(result.Differing) == 0 {
		return nil
	}
	skus := make([]string, len(result.Differing))
	for i, p := range result.Differing {
		skus[i] = p.Key
	}

	lookups, err := uc.resolver.ResolveBatch(ctx, skus)
	if err != nil {
		return err
	}

	stillDiffering := result.Differing[:0]
	for i, p := range result.Differing {
		r := lookups[i]
		if r.Matched == unas.MatchExact || r.Matched == unas.MatchFuzzy {
			p.QuantityB = r.Quantity
		}
		if p.QuantityA.Equal(p.QuantityB) {
			result.Equal = append(result.Equal, p)
			continue
		}
		stillDiffering = append(stillDiffering, p)
	}
	result.Differing = stillDiffering
	return nil
}
