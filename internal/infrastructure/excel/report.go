package excel

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v2"

	"github.com/agrolanc/stocksync/internal/domain/recon"
)

// Nombres de hoja y cabeceras del reporte, en el idioma de los operadores
// que lo consumen.
const (
	sheetDiffering     = "Eltérések"
	sheetWebshopOnly   = "Csak_webshopban"
	sheetWarehouseOnly = "Csak_raktarban"
)

var (
	headersDiffering     = []string{"Cikkszám", "Termék név", "Webshop készlet", "Raktárkészlet"}
	headersWebshopOnly   = []string{"Cikkszám", "Termék név", "Raktárkészlet"}
	headersWarehouseOnly = []string{"Cikk-kód", "Megnevezés", "Szabad készlet"}
)

// WriteReport serializa el resultado de una conciliación como libro xlsx de
// tres hojas: diferencias de cantidad, solo-en-webshop y solo-en-almacén.
// La convención de lados es A=almacén, B=webshop. Las particiones vacías
// producen hojas con solo la fila de cabecera.
func WriteReport(w io.Writer, result recon.Result) error {
	f := xlsx.NewFile()

	diff, err := addSheet(f, sheetDiffering, headersDiffering)
	if err != nil {
		return err
	}
	for _, p := range result.Differing {
		addRow(diff, p.Key, pairName(p), p.QuantityB.String(), p.QuantityA.String())
	}

	web, err := addSheet(f, sheetWebshopOnly, headersWebshopOnly)
	if err != nil {
		return err
	}
	for _, a := range result.RightOnly {
		addRow(web, a.Key, a.Name, a.Quantity.String())
	}

	wh, err := addSheet(f, sheetWarehouseOnly, headersWarehouseOnly)
	if err != nil {
		return err
	}
	for _, a := range result.LeftOnly {
		addRow(wh, a.Key, a.Name, a.Quantity.String())
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("escribiendo el libro de reporte: %w", err)
	}
	return nil
}

func addSheet(f *xlsx.File, name string, headers []string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, fmt.Errorf("creando hoja %s: %w", name, err)
	}
	addRow(sheet, headers...)
	return sheet, nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// pairName prefiere el nombre del lado webshop, que es el que reconocen los
// operadores; cae al del almacén si falta.
func pairName(p recon.Pair) string {
	if p.NameB != "" {
		return p.NameB
	}
	return p.NameA
}
