package tui

import "strings"

// recordLabels holds one key per record, up to bootdata.MaxRecords. After
// A-Z and 0-9 come the lowercase letters the records screen does not bind
// (j, k, q and y are taken), then a few symbols.
const recordLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"abcdefghilmnoprstuvwxz" +
	"!@#$%&"

// RecordLabel returns the key that picks record i, or "" past the last label.
func RecordLabel(i int) string {
	if i < 0 || i >= len(recordLabels) {
		return ""
	}
	return recordLabels[i : i+1]
}

// recordIndex returns the record a key picks.
func recordIndex(r rune) (int, bool) {
	i := strings.IndexRune(recordLabels, r)
	return i, i >= 0
}
