package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings are the registry file encodings, tried in order.
var DefaultEncodings = []string{"windows-949", "cp949", "euc-kr", "utf-8"}

// aliases covers names the WHATWG index does not know.
// korean.EUCKR decodes the full CP949 (Unified Hangul Code) range.
var aliases = map[string]encoding.Encoding{
	"cp949": korean.EUCKR,
	"uhc":   korean.EUCKR,
	"utf8":  unicode.UTF8,
}

// ResolveEncoding returns the first candidate that can decode a plain ASCII
// byte, along with its name. No usable candidate yields ErrNoDecoder.
func ResolveEncoding(names []string) (encoding.Encoding, string, error) {
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		enc, ok := aliases[name]
		if !ok {
			var err error
			enc, err = htmlindex.Get(name)
			if err != nil {
				continue
			}
		}

		if probe(enc) {
			return enc, name, nil
		}
	}
	return nil, "", fmt.Errorf("%w: tried %s", ErrNoDecoder, strings.Join(names, ", "))
}

func probe(enc encoding.Encoding) bool {
	out, err := enc.NewDecoder().Bytes([]byte{0x41})
	return err == nil && string(out) == "A"
}
