package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldHeader normaliza un encabezado: sin tildes, minúsculas, sin espacios ni guiones bajos.
// "Employee ID", "employeeId" y "employee_id" colapsan a "employeeid".
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, out)
}

// row acceso a una fila por alias de encabezado.
type row struct {
	index  map[string][]int
	values []string
}

// newHeaderIndex agrupa columnas por encabezado normalizado; dos encabezados
// pueden colapsar a la misma clave.
func newHeaderIndex(headers []string) map[string][]int {
	idx := make(map[string][]int, len(headers))
	for i, h := range headers {
		if k := foldHeader(h); k != "" {
			idx[k] = append(idx[k], i)
		}
	}
	return idx
}

// get devuelve el primer valor no vacío entre los alias.
func (r row) get(aliases ...string) string {
	for _, a := range aliases {
		for _, i := range r.index[foldHeader(a)] {
			if i >= len(r.values) {
				continue
			}
			if v := strings.TrimSpace(r.values[i]); v != "" {
				return v
			}
		}
	}
	return ""
}
