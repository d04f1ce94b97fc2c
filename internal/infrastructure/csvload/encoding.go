package csvload

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/foodstory/analytics/internal/domain/sales"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names a text encoding the loader may try on an export.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF8BOM     Encoding = "utf-8-sig"
	EncodingWindows1252 Encoding = "windows-1252"
)

// DefaultEncodings is the ordered fallback chain tried on each file;
// the first encoding that decodes cleanly wins.
func DefaultEncodings() []Encoding {
	return []Encoding{EncodingUTF8, EncodingUTF8BOM, EncodingWindows1252}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// windows-1252 leaves these byte values unassigned; a file containing
// them cannot be that encoding.
var cp1252Undefined = [...]byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// Decode converts raw file bytes to UTF-8 using the first encoding in
// the chain that decodes without error. Exhausting the chain returns a
// *sales.EncodingError naming the path and the encodings tried.
func Decode(path string, data []byte, encodings []Encoding) ([]byte, Encoding, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings()
	}

	for _, enc := range encodings {
		decoded, err := decodeOne(data, enc)
		if err == nil {
			return decoded, enc, nil
		}
	}

	tried := make([]string, len(encodings))
	for i, enc := range encodings {
		tried[i] = string(enc)
	}
	return nil, "", &sales.EncodingError{Path: path, Tried: tried}
}

func decodeOne(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		if bytes.HasPrefix(data, utf8BOM) {
			return nil, fmt.Errorf("unexpected byte order mark")
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("invalid UTF-8")
		}
		return data, nil

	case EncodingUTF8BOM:
		if !bytes.HasPrefix(data, utf8BOM) {
			return nil, fmt.Errorf("missing byte order mark")
		}
		stripped := data[len(utf8BOM):]
		if !utf8.Valid(stripped) {
			return nil, fmt.Errorf("invalid UTF-8 after byte order mark")
		}
		return stripped, nil

	case EncodingWindows1252:
		for _, b := range cp1252Undefined {
			if bytes.IndexByte(data, b) >= 0 {
				return nil, fmt.Errorf("byte 0x%02X undefined in windows-1252", b)
			}
		}
		return charmap.Windows1252.NewDecoder().Bytes(data)

	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}
