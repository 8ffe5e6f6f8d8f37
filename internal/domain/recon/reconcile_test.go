package recon_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

// Cabeceras reales de los exports: Hansa raktár y webshop UNAS.
var (
	warehouseOpts = recon.AggregateOptions{
		KeyFields:      []string{"Cikk-kód"},
		QuantityFields: []string{"Szabad"},
		NameFields:     []string{"Megnevezés"},
	}
	webshopOpts = recon.AggregateOptions{
		KeyFields:      []string{"Cikkszám"},
		QuantityFields: []string{"Raktárkészlet"},
		NameFields:     []string{"Termék Név"},
	}
)

func wrow(code string, qty any, name string) record.Record {
	return record.Record{"Cikk-kód": code, "Szabad": qty, "Megnevezés": name}
}

func srow(code string, qty any) record.Record {
	return record.Record{"Cikkszám": code, "Raktárkészlet": qty}
}

func TestAggregateRows_SumaPorClave(t *testing.T) {
	rows := []record.Record{
		wrow("A1", 5, "Widget"),
		wrow("A1", 3, "Widget"),
	}
	agg := recon.AggregateRows(rows, warehouseOpts)
	require.Contains(t, agg, "A1")
	assert.True(t, decimal.NewFromInt(8).Equal(agg["A1"].Quantity))
	assert.Equal(t, 2, agg["A1"].Rows)
	assert.Equal(t, "Widget", agg["A1"].Name)
}

func TestAggregateRows_IndependienteDelOrden(t *testing.T) {
	rows := []record.Record{
		wrow("A1", 5, "Widget"),
		wrow("b2", "2,5", "Tornillo"),
		wrow("A1", -3, "Widget"),
		wrow("B2", 1, "Tornillo"),
		{"Megnevezés": "sin clave", "Szabad": 99}, // se salta sin error
	}

	base := recon.AggregateRows(rows, warehouseOpts)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]record.Record, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		agg := recon.AggregateRows(shuffled, warehouseOpts)
		require.Equal(t, len(base), len(agg))
		for k, v := range base {
			require.Contains(t, agg, k)
			assert.True(t, v.Quantity.Equal(agg[k].Quantity), "clave %s", k)
		}
	}
}

func TestAggregateRows_ClaveNormalizada(t *testing.T) {
	// "b2" y "B2" deben agregar bajo la misma clave canónica.
	agg := recon.AggregateRows([]record.Record{
		wrow(" b2 ", 1, ""),
		wrow("B2", 2, ""),
	}, warehouseOpts)
	require.Len(t, agg, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(agg["B2"].Quantity))
}

func TestAggregateRows_PreFiltroDeUbicacion(t *testing.T) {
	opts := warehouseOpts
	opts.LocationField = "Raktár"
	opts.AllowedLocations = []string{"KOZPONT", "telep2"}

	rows := []record.Record{
		{"Cikk-kód": "A1", "Szabad": 5, "Raktár": "KOZPONT"},
		{"Cikk-kód": "A1", "Szabad": 7, "Raktár": "KULSO"}, // excluida antes de sumar
		{"Cikk-kód": "A1", "Szabad": 2, "Raktár": ""},      // sin ámbito: entra
		{"Cikk-kód": "A1", "Szabad": 1, "Raktár": "Telep2"},
	}
	agg := recon.AggregateRows(rows, opts)
	require.Contains(t, agg, "A1")
	assert.True(t, decimal.NewFromInt(8).Equal(agg["A1"].Quantity),
		"pre-filtro: la fila excluida no aporta a la suma: got %s", agg["A1"].Quantity)
}

func TestAggregateRows_SustitucionDeNegativos(t *testing.T) {
	opts := warehouseOpts
	opts.FallbackQuantityFields = []string{"Fizikai"}

	rows := []record.Record{
		{"Cikk-kód": "A1", "Szabad": -4, "Fizikai": 0}, // disponible negativo -> usa físico
		{"Cikk-kód": "A1", "Szabad": 6, "Fizikai": 10}, // positivo -> se queda el primario
	}
	agg := recon.AggregateRows(rows, opts)
	assert.True(t, decimal.NewFromInt(6).Equal(agg["A1"].Quantity))
}

func TestReconcile_EscenarioEqual(t *testing.T) {
	a := []record.Record{
		wrow("A1", 5, "Widget"),
		wrow("A1", 3, "Widget"),
	}
	b := []record.Record{srow("A1", 8)}

	res := recon.Reconcile(a, b, warehouseOpts, webshopOpts)
	require.Len(t, res.Equal, 1)
	assert.Equal(t, "A1", res.Equal[0].Key)
	assert.Empty(t, res.Differing)
	assert.Empty(t, res.LeftOnly)
	assert.Empty(t, res.RightOnly)
}

func TestReconcile_ParticionesDisjuntasYCompletas(t *testing.T) {
	a := []record.Record{
		wrow("A1", 8, ""),
		wrow("C3", 2, ""),
		wrow("D4", 1, ""),
	}
	b := []record.Record{
		srow("A1", 8),  // equal
		srow("C3", 5),  // differing
		srow("B2", 10), // rightOnly
	}

	res := recon.Reconcile(a, b, warehouseOpts, webshopOpts)

	seen := map[string]int{}
	for _, p := range res.Equal {
		seen[p.Key]++
	}
	for _, p := range res.Differing {
		seen[p.Key]++
	}
	for _, g := range res.LeftOnly {
		seen[g.Key]++
	}
	for _, g := range res.RightOnly {
		seen[g.Key]++
	}

	// Toda clave de la unión aparece exactamente una vez.
	require.Len(t, seen, 4)
	for k, n := range seen {
		assert.Equal(t, 1, n, "clave %s en más de una partición", k)
	}

	require.Len(t, res.Differing, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(res.Differing[0].QuantityA))
	assert.True(t, decimal.NewFromInt(5).Equal(res.Differing[0].QuantityB))

	require.Len(t, res.RightOnly, 1)
	assert.Equal(t, "B2", res.RightOnly[0].Key)
}

func TestReconcile_IgualdadExactaSinEpsilon(t *testing.T) {
	res := recon.Reconcile(
		[]record.Record{wrow("A1", "2,5", "")},
		[]record.Record{srow("A1", "2.5001")},
		warehouseOpts, webshopOpts,
	)
	assert.Empty(t, res.Equal)
	assert.Len(t, res.Differing, 1)
}

func TestDeriveUpdates_Politica(t *testing.T) {
	a := []record.Record{
		wrow("A1", 8, ""), // equal -> excluido
		wrow("C3", 2, ""), // differing -> qty de B
		wrow("D4", 1, ""), // leftOnly -> excluido por defecto
	}
	b := []record.Record{
		srow("A1", 8),
		srow("C3", 5),
		srow("B2", 10), // rightOnly -> qty 0
	}
	res := recon.Reconcile(a, b, warehouseOpts, webshopOpts)

	items := recon.DeriveUpdates(res, recon.UpdateOptions{})
	require.Len(t, items, 2)
	assert.Equal(t, "C3", items[0].SKU)
	assert.True(t, decimal.NewFromInt(5).Equal(items[0].Quantity))
	assert.Equal(t, "B2", items[1].SKU)
	assert.True(t, items[1].Quantity.IsZero())

	// Con IncludeLeftOnly las claves solo-A entran como altas.
	withLeft := recon.DeriveUpdates(res, recon.UpdateOptions{IncludeLeftOnly: true})
	require.Len(t, withLeft, 3)
	assert.Equal(t, "D4", withLeft[2].SKU)
	assert.True(t, decimal.NewFromInt(1).Equal(withLeft[2].Quantity))
}

func TestDedupeUpdates_GanaLaUltima(t *testing.T) {
	items := []recon.UpdateItem{
		{SKU: "A1", Quantity: decimal.NewFromInt(1)},
		{SKU: "B2", Quantity: decimal.NewFromInt(2)},
		{SKU: "A1", Quantity: decimal.NewFromInt(9)},
	}
	out := recon.DedupeUpdates(items)
	require.Len(t, out, 2)
	assert.Equal(t, "A1", out[0].SKU)
	assert.True(t, decimal.NewFromInt(9).Equal(out[0].Quantity), "el valor calculado más tarde gana")
	assert.Equal(t, "B2", out[1].SKU)
}
