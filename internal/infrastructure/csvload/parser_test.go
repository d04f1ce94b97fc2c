package csvload

import (
	"strings"
	"testing"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserHeader(t *testing.T) {
	t.Run("parses header row", func(t *testing.T) {
		p := NewParser(strings.NewReader("Receipt Number,Summary Price\nR1,100\n"))
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"Receipt Number", "Summary Price"}, p.Headers())
	})

	t.Run("empty file", func(t *testing.T) {
		p := NewParser(strings.NewReader(""))
		err := p.ParseHeader()
		assert.ErrorIs(t, err, sales.ErrEmptyFile)
	})

	t.Run("trims header whitespace", func(t *testing.T) {
		p := NewParser(strings.NewReader(" Receipt Number , Summary Price \nR1,100\n"))
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"Receipt Number", "Summary Price"}, p.Headers())
	})
}

func TestParserReadAllRows(t *testing.T) {
	t.Run("reads rows in order", func(t *testing.T) {
		input := "Receipt,Amount\nR1,100\nR2,200\nR3,300\n"
		p := NewParser(strings.NewReader(input))
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "R1", rows[0].Get("Receipt"))
		assert.Equal(t, "R3", rows[2].Get("Receipt"))
		assert.Equal(t, 2, rows[0].LineNumber)
	})

	t.Run("skips fully empty rows", func(t *testing.T) {
		input := "Receipt,Amount\nR1,100\n,\nR2,200\n"
		p := NewParser(strings.NewReader(input))
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 2)
	})

	t.Run("pads short rows", func(t *testing.T) {
		input := "Receipt,Amount,Note\nR1,100\n"
		p := NewParser(strings.NewReader(input))
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0].Get("Note"))
	})

	t.Run("quoted fields with commas", func(t *testing.T) {
		input := "Receipt,Note\nR1,\"hello, world\"\n"
		p := NewParser(strings.NewReader(input))
		require.NoError(t, p.ParseHeader())

		rows, err := p.ReadAllRows()
		require.NoError(t, err)
		assert.Equal(t, "hello, world", rows[0].Get("Note"))
	})
}

func TestRowGetOrDefault(t *testing.T) {
	row := &Row{Data: map[string]string{"a": "1", "b": ""}}
	assert.Equal(t, "1", row.GetOrDefault("a", "x"))
	assert.Equal(t, "x", row.GetOrDefault("b", "x"))
	assert.Equal(t, "x", row.GetOrDefault("missing", "x"))
}
