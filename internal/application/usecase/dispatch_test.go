package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolanc/stocksync/internal/application/usecase"
	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/recon"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/pkg/logger"
)

type fakeWriter struct {
	batches [][]recon.UpdateItem
	err     error
}

func (f *fakeWriter) SubmitStockBatch(ctx context.Context, items []recon.UpdateItem) (record.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	batch := make([]recon.UpdateItem, len(items))
	copy(batch, items)
	f.batches = append(f.batches, batch)
	return record.Record{"Status": "ok"}, nil
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestDispatch_DryRunEsPuro(t *testing.T) {
	w := &fakeWriter{}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	updates := make([]recon.UpdateItem, 8)
	for i := range updates {
		updates[i] = recon.UpdateItem{SKU: fmt.Sprintf("S-%d", i), Quantity: qty(int64(i))}
	}
	out, err := uc.Dispatch(context.Background(), updates, usecase.DispatchOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, out.DryRun)
	assert.Equal(t, 8, out.Count)
	assert.Len(t, out.Sample, 5, "la muestra son los primeros cinco")
	assert.Equal(t, "S-0", out.Sample[0].SKU)
	assert.Empty(t, w.batches, "el dry-run no debe tocar la red")
}

func TestDispatch_TroceaEnLotesSecuenciales(t *testing.T) {
	w := &fakeWriter{}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	updates := make([]recon.UpdateItem, 150)
	for i := range updates {
		updates[i] = recon.UpdateItem{SKU: fmt.Sprintf("S-%03d", i), Quantity: qty(1)}
	}
	out, err := uc.Dispatch(context.Background(), updates, usecase.DispatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 150, out.Count)
	assert.Equal(t, 2, out.Batches)
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 100)
	assert.Len(t, w.batches[1], 50)
	assert.Equal(t, "S-000", w.batches[0][0].SKU)
	assert.Equal(t, "S-100", w.batches[1][0].SKU, "los lotes conservan el orden global")
	assert.Len(t, out.Results, 2)
}

func TestDispatch_SaneaFiltraYCorta(t *testing.T) {
	w := &fakeWriter{}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	updates := []recon.UpdateItem{
		{SKU: "  a1 ", Quantity: qty(5)},
		{SKU: "", Quantity: qty(9)},          // sin clave: se descarta
		{SKU: "A1", Quantity: qty(7)},        // duplicada: gana la última
		{SKU: "B2", Quantity: qty(3)},
		{SKU: "C3", Quantity: qty(1)},
	}
	out, err := uc.Dispatch(context.Background(), updates, usecase.DispatchOptions{
		OnlyKeys: []string{"a1", "b2"},
		Limit:    1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Count)
	assert.True(t, out.Trimmed)
	require.Len(t, w.batches, 1)
	require.Len(t, w.batches[0], 1)
	assert.Equal(t, "A1", w.batches[0][0].SKU)
	assert.True(t, qty(7).Equal(w.batches[0][0].Quantity))
}

func TestDispatch_ValidacionDeEntrada(t *testing.T) {
	w := &fakeWriter{}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	_, err := uc.Dispatch(context.Background(), nil, usecase.DispatchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tras el filtro no queda nada: en envío real es error, en dry-run no.
	updates := []recon.UpdateItem{{SKU: "A1", Quantity: qty(1)}}
	_, err = uc.Dispatch(context.Background(), updates, usecase.DispatchOptions{OnlyKeys: []string{"ZZ"}})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdateSet)

	out, err := uc.Dispatch(context.Background(), updates, usecase.DispatchOptions{DryRun: true, OnlyKeys: []string{"ZZ"}})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.Empty(t, w.batches)
}

func TestDispatch_ElFalloDeUnLoteAborta(t *testing.T) {
	w := &fakeWriter{err: domain.ErrUpstreamAuth}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	_, err := uc.Dispatch(context.Background(), []recon.UpdateItem{{SKU: "A1", Quantity: qty(1)}}, usecase.DispatchOptions{})
	assert.ErrorIs(t, err, domain.ErrUpstreamAuth)
}

func TestDispatchPartitions_DerivaYDespacha(t *testing.T) {
	w := &fakeWriter{}
	uc := usecase.NewDispatchUseCase(w, 100, testLog())

	res := &recon.Result{
		Equal:     []recon.Pair{{Key: "E1", QuantityA: qty(4), QuantityB: qty(4)}},
		Differing: []recon.Pair{{Key: "D1", QuantityA: qty(2), QuantityB: qty(5)}},
		LeftOnly:  []recon.Aggregate{{Key: "L1", Quantity: qty(9)}},
		RightOnly: []recon.Aggregate{{Key: "R1", Quantity: qty(3)}},
	}
	out, err := uc.DispatchPartitions(context.Background(), res, recon.UpdateOptions{}, usecase.DispatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Count)
	require.Len(t, w.batches, 1)
	assert.Equal(t, "D1", w.batches[0][0].SKU)
	assert.True(t, qty(5).Equal(w.batches[0][0].Quantity))
	assert.Equal(t, "R1", w.batches[0][1].SKU)
	assert.True(t, w.batches[0][1].Quantity.IsZero())
}
