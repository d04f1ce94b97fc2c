package csvload

import (
	"testing"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("plain utf-8", func(t *testing.T) {
		data := []byte("Receipt,เมนู\n")
		decoded, enc, err := Decode("test.csv", data, nil)
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, enc)
		assert.Equal(t, data, decoded)
	})

	t.Run("utf-8 with byte order mark", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Receipt,Amount\n")...)
		decoded, enc, err := Decode("test.csv", data, nil)
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8BOM, enc)
		assert.Equal(t, []byte("Receipt,Amount\n"), decoded)
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		// 0xE9 is é in windows-1252 and invalid as standalone UTF-8.
		data := []byte{'c', 'a', 'f', 0xE9}
		decoded, enc, err := Decode("test.csv", data, nil)
		require.NoError(t, err)
		assert.Equal(t, EncodingWindows1252, enc)
		assert.Equal(t, "café", string(decoded))
	})

	t.Run("undecodable exhausts the chain", func(t *testing.T) {
		// 0xFF makes UTF-8 invalid; 0x81 is unassigned in windows-1252.
		data := []byte{0xFF, 0x81}
		_, _, err := Decode("bad.csv", data, nil)
		require.Error(t, err)

		var encErr *sales.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, "bad.csv", encErr.Path)
		assert.Equal(t, []string{"utf-8", "utf-8-sig", "windows-1252"}, encErr.Tried)
	})

	t.Run("custom chain order is honored", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n")...)
		_, _, err := Decode("test.csv", data, []Encoding{EncodingUTF8})
		require.Error(t, err)

		decoded, enc, err := Decode("test.csv", data, []Encoding{EncodingUTF8BOM})
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8BOM, enc)
		assert.Equal(t, []byte("a,b\n"), decoded)
	})
}
