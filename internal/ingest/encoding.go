package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the encoding of the result site's exports.
const DefaultEncoding = "latin1"

// Decoder returns the encoding named by name. Every encoding honors a
// leading UTF-8 BOM, which switches decoding to UTF-8; invalid UTF-8 decodes
// to U+FFFD.
func Decoder(name string) (encoding.Encoding, error) {
	var fallback encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		fallback = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		fallback = charmap.Windows1252
	case "utf-8", "utf8":
		fallback = unicode.UTF8
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return bomEncoding{fallback}, nil
}

// bomEncoding decodes with a BOM override and encodes with the fallback.
type bomEncoding struct {
	fallback encoding.Encoding
}

func (e bomEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: unicode.BOMOverride(e.fallback.NewDecoder())}
}

func (e bomEncoding) NewEncoder() *encoding.Encoder {
	return e.fallback.NewEncoder()
}

// countingReader counts the bytes read from the underlying reader.
type countingReader struct {
	r io.Reader
	n int64
}

func newCountingReader(r io.Reader) *countingReader {
	return &countingReader{r: r}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
