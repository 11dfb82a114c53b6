// Package plaintext turns raw source bytes into normalised UTF-8 text.
package plaintext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// utf8BOM is the UTF-8 byte-order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser converts source bytes in a configured encoding to UTF-8,
// strips a leading byte-order mark and unifies line endings to \n.
type Normaliser struct {
	name     string
	encoding encoding.Encoding // nil means the input is already UTF-8
}

// New creates a normaliser for the named encoding. An empty name means UTF-8.
// Names follow the WHATWG encoding labels, e.g. "iso-8859-1" or "shift_jis".
func New(name string) (*Normaliser, error) {
	if isUTF8(name) {
		return &Normaliser{name: "utf-8"}, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q", domain.ErrUnsupportedType, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	if canonical == "utf-8" {
		return &Normaliser{name: canonical}, nil
	}
	return &Normaliser{name: canonical, encoding: enc}, nil
}

// Encoding returns the canonical name of the source encoding.
func (n *Normaliser) Encoding() string {
	return n.name
}

// Normalise decodes data and returns normalised text.
func (n *Normaliser) Normalise(data []byte) (string, error) {
	if n.encoding != nil {
		decoded, err := n.encoding.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", n.name, err)
		}
		data = decoded
	}
	return NormaliseString(string(data)), nil
}

// NormaliseString strips leading UTF-8 BOMs and converts \r\n and bare \r
// line endings to \n. It is idempotent.
func NormaliseString(s string) string {
	for strings.HasPrefix(s, string(utf8BOM)) {
		s = s[len(utf8BOM):]
	}
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// HasBOM reports whether data starts with a UTF-8 byte-order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM)
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
