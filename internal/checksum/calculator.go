package checksum

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/zeebo/xxh3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Calculator computes content fingerprints for source files.
type Calculator interface {
	// CalculateRaw fingerprints the exact bytes.
	CalculateRaw(content []byte) string

	// CalculateNormalized fingerprints content after dropping a leading BOM
	// and converting CRLF line endings to LF.
	CalculateNormalized(content []byte) string

	// CalculateReader fingerprints a stream without buffering it.
	CalculateReader(r io.Reader) (string, error)
}

// XXH3 implements Calculator with the 128-bit XXH3 hash.
// XXH3 is a zero-size type and is safe for concurrent use.
type XXH3 struct{}

// New creates a new XXH3 calculator.
func New() XXH3 {
	return XXH3{}
}

func (XXH3) CalculateRaw(content []byte) string {
	return encode(xxh3.Hash128(content))
}

func (c XXH3) CalculateNormalized(content []byte) string {
	return c.CalculateRaw(normalize(content))
}

func (XXH3) CalculateReader(r io.Reader) (string, error) {
	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return encode(h.Sum128()), nil
}

func encode(sum xxh3.Uint128) string {
	b := sum.Bytes()
	return hex.EncodeToString(b[:])
}

func normalize(content []byte) []byte {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !bytes.Contains(content, []byte("\r\n")) {
		return content
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
