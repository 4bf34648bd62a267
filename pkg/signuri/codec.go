package signuri

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// JSONFlavor selects how payloads are serialized before encoding.
type JSONFlavor string

const (
	// JSONFlavorGo is encoding/json output without HTML escaping.
	JSONFlavorGo JSONFlavor = "go"
	// JSONFlavorPHP additionally escapes "/" and non-ASCII runes the way PHP json_encode does.
	JSONFlavorPHP JSONFlavor = "php"
)

var errTrailingData = errors.New("trailing data after payload")

func (f JSONFlavor) valid() bool {
	return f == JSONFlavorGo || f == JSONFlavorPHP
}

// encodeSegment is base64url without padding: "+" becomes "-", "/" becomes "_".
func encodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeSegment accepts segments with or without trailing "=" padding.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

func marshalPayload(v any, flavor JSONFlavor) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	if flavor == JSONFlavorPHP {
		out = escapePHP(out)
	}
	return out, nil
}

// unmarshalPayload decodes a single JSON value into v, keeping numbers as
// json.Number in interface values. Trailing data is an error.
func unmarshalPayload(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// escapePHP rewrites string contents of compact, valid JSON so that "/" is
// written as "\/" and every non-ASCII rune as \uXXXX. Existing escape
// sequences are copied unchanged.
func escapePHP(in []byte) []byte {
	out := make([]byte, 0, len(in)+len(in)/8)
	inString := false
	for i := 0; i < len(in); {
		c := in[i]
		switch {
		case !inString:
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			i++
		case c == '\\':
			out = append(out, in[i:min(i+2, len(in))]...)
			i += 2
		case c == '"':
			inString = false
			out = append(out, c)
			i++
		case c == '/':
			out = append(out, '\\', '/')
			i++
		case c < utf8.RuneSelf:
			out = append(out, c)
			i++
		default:
			r, size := utf8.DecodeRune(in[i:])
			if r >= 0x10000 {
				r1, r2 := utf16.EncodeRune(r)
				out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
			} else {
				out = fmt.Appendf(out, `\u%04x`, r)
			}
			i += size
		}
	}
	return out
}
