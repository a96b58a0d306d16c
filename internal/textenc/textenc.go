// Package textenc makes names read from firmware images printable.
//
// Record names, FMAP area names and CBFS entry names are raw bytes. Names
// that are valid UTF-8 are shown as is; anything else is taken to be
// ISO-8859-1, the usual encoding of 8-bit firmware strings.
package textenc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Display converts a raw name to printable UTF-8. Control characters are
// replaced by U+FFFD.
func Display(raw string) string {
	s := raw
	if !utf8.ValidString(s) {
		decoded, err := charmap.ISO8859_1.NewDecoder().String(raw)
		if err == nil {
			s = decoded
		} else {
			s = strings.ToValidUTF8(raw, string(utf8.RuneError))
		}
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return utf8.RuneError
		}
		return r
	}, s)
}
