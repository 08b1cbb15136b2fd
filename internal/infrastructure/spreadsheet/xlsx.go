// Package spreadsheet adapta excelize al puerto SheetCodec del padrón y los reportes.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/roster"
)

var _ roster.SheetCodec = (*XLSXCodec)(nil)

// XLSXCodec lee la primera hoja de un libro y escribe libros de una sola hoja.
type XLSXCodec struct{}

// NewXLSXCodec construye el codec.
func NewXLSXCodec() *XLSXCodec { return &XLSXCodec{} }

// Read devuelve la primera fila como encabezados y el resto como datos.
// Las filas completamente vacías se descartan.
func (XLSXCodec) Read(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("libro sin hojas")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	rows := make([][]string, 0, len(all)-1)
	for _, r := range all[1:] {
		if isBlank(r) {
			continue
		}
		rows = append(rows, r)
	}
	return all[0], rows, nil
}

// Write genera un .xlsx con una hoja: encabezados en la fila 1 y datos a continuación.
func (XLSXCodec) Write(sheet string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("nombrar hoja: %w", err)
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return nil, err
		}
	}
	if len(headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheet, "A", last, 20)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("escribir fila %d: %w", n, err)
	}
	return nil
}

func isBlank(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
