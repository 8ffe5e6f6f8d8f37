// Package excel lee las tablas fuente (almacén y webshop) desde xlsx o csv
// y escribe el libro de reporte de discrepancias.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"

	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

// ReadTable parsea una tabla subida a registros genéricos. La primera fila es
// la cabecera; cada fila posterior se vuelve un registro cabecera→celda con
// "" para las celdas que falten. El formato se decide por la extensión del
// nombre de archivo: .csv va por el lector CSV, todo lo demás por xlsx.
func ReadTable(filename string, data []byte) ([]record.Record, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return readCSV(data)
	}
	return readXLSX(data)
}

func readXLSX(data []byte) ([]record.Record, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx ilegible: %v", domain.ErrParse, err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx sin hojas", domain.ErrParse)
	}

	// Siempre la primera hoja, igual que hace la exportación de los ERP.
	sheet := f.Sheets[0]
	var table [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		table = append(table, cells)
	}
	return tableToRecords(table), nil
}

func readCSV(data []byte) ([]record.Record, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // BOM de exportaciones Windows

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // las exportaciones reales traen filas desiguales

	var table [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv ilegible: %v", domain.ErrParse, err)
		}
		table = append(table, rec)
	}
	return tableToRecords(table), nil
}

// tableToRecords primera fila cabecera, resto datos. Las filas totalmente
// vacías se descartan; las cabeceras vacías no generan campo.
func tableToRecords(table [][]string) []record.Record {
	if len(table) == 0 {
		return nil
	}
	headers := table[0]

	var records []record.Record
	for _, row := range table[1:] {
		if isEmptyRow(row) {
			continue
		}
		rec := record.Record{}
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(row) {
				rec[h] = row[j]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
