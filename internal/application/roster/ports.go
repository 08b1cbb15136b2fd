package roster

// SheetCodec lee y escribe hojas de cálculo como tablas de texto.
// Read devuelve la primera hoja: encabezados y filas de datos.
type SheetCodec interface {
	Read(data []byte) (headers []string, rows [][]string, err error)
	Write(sheet string, headers []string, rows [][]string) ([]byte, error)
}

// Tipo MIME de las exportaciones.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
