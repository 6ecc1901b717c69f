package staging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

const hexDigits = "0123456789abcdef"

// EncodeCorpus renders records as an indented, ASCII-only JSON array.
// The same records always produce the same bytes.
func EncodeCorpus(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding corpus: %w", err)
	}

	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every non-ASCII rune, and DEL, of valid JSON as a \u escape.
// Both only occur inside JSON strings, so this never changes meaning.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] == 0x7f {
			out = appendEscape(out, 0x7f)
			i++
			continue
		}
		if data[i] < utf8.RuneSelf {
			out = append(out, data[i])
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		i += size
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = appendEscape(out, hi)
			out = appendEscape(out, lo)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	return append(out, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
