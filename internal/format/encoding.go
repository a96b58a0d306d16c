package format

import "encoding/binary"

// FMAP structures are little-endian; CBFS file headers are big-endian.
// Callers bounds-check before using these helpers.

// ReadU16 reads a little-endian uint16 at off.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a little-endian uint32 at off.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadU64 reads a little-endian uint64 at off.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// PutU16 writes a little-endian uint16 at off.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a little-endian uint32 at off.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes a little-endian uint64 at off.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadBE32 reads a big-endian uint32 at off.
func ReadBE32(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+4])
}

// PutBE32 writes a big-endian uint32 at off.
func PutBE32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}

// CString returns the bytes of a fixed-width, NUL-padded string field up to
// the first NUL. ok is false when the field has no terminator.
func CString(field []byte) (s string, ok bool) {
	for i, c := range field {
		if c == 0 {
			return string(field[:i]), true
		}
	}
	return string(field), false
}

// PutCString copies s into a fixed-width field and zero-fills the rest.
// s is truncated so that at least one NUL remains.
func PutCString(field []byte, s string) {
	n := copy(field[:len(field)-1], s)
	clear(field[n:])
}
