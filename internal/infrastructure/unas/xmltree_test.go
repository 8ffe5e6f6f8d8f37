package unas

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

func TestParseTree_ElementosRepetidosYAtributos(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
<Products>
  <Product>
    <Sku>A1</Sku>
    <Stocks>
      <Stock bin="P1"><Qty>3</Qty></Stock>
      <Stock bin="P2"><Qty>-1</Qty></Stock>
    </Stocks>
  </Product>
</Products>`)

	tree, err := ParseTree(raw)
	require.NoError(t, err)

	product := at(tree, "Products", "Product")
	require.NotNil(t, product)
	p, ok := product.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A1", record.FieldString(p, "Sku"))

	stocks := asList(at(p, "Stocks", "Stock"))
	require.Len(t, stocks, 2, "hijos repetidos deben volverse secuencia")
	first := stocks[0].(map[string]any)
	assert.Equal(t, "P1", first["@bin"])

	// El extractor consume este árbol directamente.
	assert.True(t, decimal.NewFromInt(2).Equal(record.ExtractQuantity(p)))
}

func TestParseTree_HijoUnicoColapsado(t *testing.T) {
	tree, err := ParseTree([]byte(`<Products><Product><Sku>B2</Sku></Product></Products>`))
	require.NoError(t, err)
	list := asList(at(tree, "Products", "Product"))
	require.Len(t, list, 1)
}

func TestParseTree_TextoMixto(t *testing.T) {
	tree, err := ParseTree([]byte(`<Qty unit="db">5</Qty>`))
	require.NoError(t, err)
	node, ok := at(tree, "Qty").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "5", node["#text"])
	assert.Equal(t, "db", node["@unit"])
}

func TestParseTree_MalformadoLlevaFragmento(t *testing.T) {
	_, err := ParseTree([]byte(`<Products><Product>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "<Products>", "el error debe llevar el fragmento crudo para diagnóstico")
}

func TestFirstProduct_FormaNoReconocida(t *testing.T) {
	tree, err := ParseTree([]byte(`<Unexpected><Thing>x</Thing></Unexpected>`))
	require.NoError(t, err)
	_, _, err = firstProduct(tree)
	assert.ErrorIs(t, err, errShape)
}

func TestFirstProduct_ContenedorVacioEsNoEncontrado(t *testing.T) {
	tree, err := ParseTree([]byte(`<Products></Products>`))
	require.NoError(t, err)
	_, found, err := firstProduct(tree)
	require.NoError(t, err)
	assert.False(t, found)
}
