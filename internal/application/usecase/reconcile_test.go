package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolanc/stocksync/internal/application/usecase"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/internal/infrastructure/unas"
	"github.com/agrolanc/stocksync/pkg/config"
)

type fakeResolver struct {
	levels map[string]decimal.Decimal
	calls  int
}

func (f *fakeResolver) ResolveBatch(ctx context.Context, skus []string) ([]unas.LookupResult, error) {
	f.calls++
	out := make([]unas.LookupResult, len(skus))
	for i, s := range skus {
		r := unas.LookupResult{RequestedSKU: s, Matched: unas.MatchNone}
		if q, ok := f.levels[s]; ok {
			r.SKU = s
			r.Quantity = q
			r.Matched = unas.MatchExact
		}
		out[i] = r
	}
	return out, nil
}

func warehouseRow(code, qty, name string) record.Record {
	return record.Record{"Cikk-kód": code, "Szabad": qty, "Megnevezés": name}
}

func webshopRow(code, qty, name string) record.Record {
	return record.Record{"Cikkszám": code, "Raktárkészlet": qty, "Termék Név": name}
}

func TestReconcile_ParticionesYCorrecciones(t *testing.T) {
	uc := usecase.NewReconcileUseCase(nil, config.SyncConfig{}, testLog())

	out, err := uc.Reconcile(context.Background(), usecase.ReconcileInput{
		Warehouse: []record.Record{
			warehouseRow("A1", "5", "Kerti csap"),
			warehouseRow("a1", "3", "Kerti csap"), // misma clave normalizada: suma
			warehouseRow("L1", "2", "Csak raktári"),
		},
		Webshop: []record.Record{
			webshopRow("A1", "8", "Kerti csap"),
			webshopRow("D1", "10", "Eltérő"),
			webshopRow("R1", "4", "Csak webshop"),
		},
	})
	require.NoError(t, err)

	equal, differing, leftOnly, rightOnly := out.Result.Counts()
	assert.Equal(t, 1, equal, "A1 suma 8 en ambos lados")
	assert.Equal(t, 0, differing)
	assert.Equal(t, 1, leftOnly)
	assert.Equal(t, 2, rightOnly)

	// Correcciones: cada clave solo-webshop se limpia a cero.
	require.Len(t, out.Updates, 2)
	for _, u := range out.Updates {
		assert.True(t, u.Quantity.IsZero())
	}
}

func TestReconcile_RefreshRefinaLasDiferencias(t *testing.T) {
	resolver := &fakeResolver{levels: map[string]decimal.Decimal{
		"D1": decimal.NewFromInt(2), // en vivo coincide con el almacén
	}}
	uc := usecase.NewReconcileUseCase(resolver, config.SyncConfig{}, testLog())

	out, err := uc.Reconcile(context.Background(), usecase.ReconcileInput{
		Warehouse: []record.Record{
			warehouseRow("D1", "2", "Eltérő"),
			warehouseRow("D2", "6", "Sigue eltérő"),
		},
		Webshop: []record.Record{
			webshopRow("D1", "9", "Eltérő"),
			webshopRow("D2", "1", "Sigue eltérő"),
		},
		Refresh: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)

	equal, differing, _, _ := out.Result.Counts()
	assert.Equal(t, 1, equal, "la diferencia D1 desaparece con el dato fresco")
	assert.Equal(t, 1, differing, "D2 no estaba en el catálogo vivo y se queda como estaba")

	require.Len(t, out.Updates, 1)
	assert.Equal(t, "D2", out.Updates[0].SKU)
	assert.True(t, decimal.NewFromInt(1).Equal(out.Updates[0].Quantity))
}

func TestReconcile_FiltroDeUbicacionesDelAlmacen(t *testing.T) {
	uc := usecase.NewReconcileUseCase(nil, config.SyncConfig{WarehouseLocations: []string{"FO"}}, testLog())

	out, err := uc.Reconcile(context.Background(), usecase.ReconcileInput{
		Warehouse: []record.Record{
			{"Cikk-kód": "A1", "Szabad": "5", "Raktár": "FO"},
			{"Cikk-kód": "A1", "Szabad": "7", "Raktár": "KULSO"}, // fuera de la lista
			{"Cikk-kód": "A1", "Szabad": "3"},                    // sin ubicación: siempre entra
		},
		Webshop: []record.Record{webshopRow("A1", "8", "Kerti csap")},
	})
	require.NoError(t, err)

	equal, _, _, _ := out.Result.Counts()
	assert.Equal(t, 1, equal, "solo suman las filas FO y la sin ubicación: 5+3")
}

func TestReconcile_IncludeLeftOnly(t *testing.T) {
	uc := usecase.NewReconcileUseCase(nil, config.SyncConfig{}, testLog())

	out, err := uc.Reconcile(context.Background(), usecase.ReconcileInput{
		Warehouse:       []record.Record{warehouseRow("L1", "4", "Csak raktári")},
		Webshop:         nil,
		IncludeLeftOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, out.Updates, 1)
	assert.Equal(t, "L1", out.Updates[0].SKU)
	assert.True(t, decimal.NewFromInt(4).Equal(out.Updates[0].Quantity))
}
