package bootdata

import (
	"bytes"
	"strconv"
)

// SectorSize is the size of a padded order artifact: one SPI flash sector.
const SectorSize = 4096

// PadSentinel ends every padded order artifact.
const PadSentinel = "this file needs to be 4096 bytes long in order to entirely fill 1 spi flash sector"

// PadLimit is the largest content Pad accepts.
const PadLimit = SectorSize - len(PadSentinel)

const crlf = "\r\n"

// DumpOrder serializes the order artifact: every device line of every
// record in current order, then one line per option in table order.
// Boolean and Toggle values are decimal, Hex4 values are exactly four
// lowercase hex digits.
func DumpOrder(c *Config) []byte {
	var b bytes.Buffer
	for _, r := range c.Records {
		for _, dev := range r.Devices {
			b.WriteString(dev)
			b.WriteString(crlf)
		}
	}
	for _, d := range optionTable {
		b.WriteString(d.Keyword)
		b.WriteString(formatStored(d.Kind, c.values[d.ID]))
		b.WriteString(crlf)
	}
	return b.Bytes()
}

func formatStored(k Kind, v int) string {
	if k != Hex4 {
		return strconv.Itoa(v)
	}
	s := strconv.FormatUint(uint64(v&MaxHex4), 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// DumpMap serializes the map artifact: for every record in current order,
// one "<tag> <name>" line per device line. Tags are regenerated from the
// record position ('a' for the first record), so original tags are not
// preserved.
func DumpMap(c *Config) []byte {
	var b bytes.Buffer
	for i, r := range c.Records {
		tag := byte('a' + i)
		for range r.Devices {
			b.WriteByte(tag)
			b.WriteByte(' ')
			b.WriteString(r.Name)
			b.WriteString(crlf)
		}
	}
	return b.Bytes()
}

// Pad returns content followed by NUL bytes and PadSentinel, SectorSize
// bytes in total. Content longer than PadLimit fails with *OversizeError.
func Pad(content []byte) ([]byte, error) {
	if len(content) > PadLimit {
		return nil, &OversizeError{Size: len(content), Limit: PadLimit}
	}
	out := make([]byte, SectorSize)
	copy(out, content)
	copy(out[PadLimit:], PadSentinel)
	return out, nil
}

// PaddedOrder is Pad(DumpOrder(c)).
func PaddedOrder(c *Config) ([]byte, error) {
	return Pad(DumpOrder(c))
}
