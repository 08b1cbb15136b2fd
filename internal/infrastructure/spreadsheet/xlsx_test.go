package spreadsheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-imagenes/internal/infrastructure/spreadsheet"
)

func TestXLSXCodec_EscribeYLee(t *testing.T) {
	c := spreadsheet.NewXLSXCodec()
	data, err := c.Write("Employees", []string{"Employee ID", "Display Name"}, [][]string{
		{"E100", "Ana"},
		{"", ""},
		{"E200", "Luis"},
	})
	require.NoError(t, err)

	headers, rows, err := c.Read(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee ID", "Display Name"}, headers)
	assert.Equal(t, [][]string{{"E100", "Ana"}, {"E200", "Luis"}}, rows)
}

func TestXLSXCodec_ArchivoInvalido(t *testing.T) {
	_, _, err := spreadsheet.NewXLSXCodec().Read([]byte("no es un xlsx"))
	assert.Error(t, err)
}
