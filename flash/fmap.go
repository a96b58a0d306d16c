package flash

import (
	"bytes"
	"fmt"
	"math/bits"
	"strings"

	"github.com/joshuapare/bootkit/internal/buf"
	"github.com/joshuapare/bootkit/internal/format"
)

// FMap is a zero-copy view of an FMAP header and its area records inside an
// image buffer.
type FMap struct {
	raw []byte
}

// Area is a decoded FMAP area record.
type Area struct {
	Name   string
	Offset uint32
	Size   uint32
	Flags  uint16
}

// End returns the first offset past the area.
func (a Area) End() uint64 { return uint64(a.Offset) + uint64(a.Size) }

// FlagString renders the area flags as a comma separated list.
func (a Area) FlagString() string {
	var parts []string
	if a.Flags&format.FMapAreaStatic != 0 {
		parts = append(parts, "static")
	}
	if a.Flags&format.FMapAreaCompressed != 0 {
		parts = append(parts, "compressed")
	}
	if a.Flags&format.FMapAreaRO != 0 {
		parts = append(parts, "ro")
	}
	if a.Flags&format.FMapAreaPreserve != 0 {
		parts = append(parts, "preserve")
	}
	return strings.Join(parts, ",")
}

// ParseFMap returns a view of the FMAP starting at b[0]. The view aliases b.
func ParseFMap(b []byte) (*FMap, error) {
	if !isValidFMap(b, 0) {
		return nil, fmt.Errorf("fmap: %w", format.ErrSignatureMismatch)
	}
	n := fmapSize(b, 0)
	raw, ok := buf.Slice(b, 0, n)
	if !ok {
		return nil, fmt.Errorf("fmap: %d areas need %d bytes, have %d: %w",
			format.ReadU16(b, format.FMapNAreasOffset), n, len(b), format.ErrTruncated)
	}
	return &FMap{raw: raw}, nil
}

// Raw returns the header and area records.
func (m *FMap) Raw() []byte { return m.raw }

// Len returns the encoded size of the FMAP.
func (m *FMap) Len() int { return len(m.raw) }

// VersionMajor returns the major version.
func (m *FMap) VersionMajor() uint8 { return m.raw[format.FMapVerMajorOffset] }

// VersionMinor returns the minor version.
func (m *FMap) VersionMinor() uint8 { return m.raw[format.FMapVerMinorOffset] }

// Base returns the flash base address.
func (m *FMap) Base() uint64 { return format.ReadU64(m.raw, format.FMapBaseOffset) }

// ImageSize returns the declared size of the whole image.
func (m *FMap) ImageSize() uint32 { return format.ReadU32(m.raw, format.FMapSizeOffset) }

// Name returns the image name.
func (m *FMap) Name() string {
	s, _ := format.CString(m.raw[format.FMapNameOffset : format.FMapNameOffset+format.FMapStrLen])
	return s
}

// NumAreas returns the number of area records.
func (m *FMap) NumAreas() int { return int(format.ReadU16(m.raw, format.FMapNAreasOffset)) }

// Area decodes area record i.
func (m *FMap) Area(i int) Area {
	rec := m.raw[format.FMapHeaderSize+i*format.FMapAreaSize:]
	name, _ := format.CString(rec[format.FMapAreaNameOffset : format.FMapAreaNameOffset+format.FMapStrLen])
	return Area{
		Name:   name,
		Offset: format.ReadU32(rec, format.FMapAreaOffsetOffset),
		Size:   format.ReadU32(rec, format.FMapAreaSizeOffset),
		Flags:  format.ReadU16(rec, format.FMapAreaFlagsOffset),
	}
}

// Areas decodes every area record in table order.
func (m *FMap) Areas() []Area {
	areas := make([]Area, m.NumAreas())
	for i := range areas {
		areas[i] = m.Area(i)
	}
	return areas
}

// FindArea returns the first area named name.
func (m *FMap) FindArea(name string) (Area, bool) {
	for i := range m.NumAreas() {
		if a := m.Area(i); a.Name == name {
			return a, true
		}
	}
	return Area{}, false
}

// FindFMap searches b for an FMAP header and returns its offset.
//
// Power-of-two sized images are probed with a halving stride (len/2 down to
// 16 bytes), visiting each offset once; other sizes are scanned byte by byte.
// The search is heuristic: a damaged header is missed, and a stray byte
// sequence that passes validation is reported. Callers must cross-check the
// FMAP area against the returned offset.
func FindFMap(b []byte) (int, bool) {
	if len(b) == 0 {
		return -1, false
	}

	var (
		off   int
		found bool
	)
	if bits.OnesCount(uint(len(b))) == 1 {
		off, found = fmapStridedSearch(b)
	} else {
		off, found = fmapLinearSearch(b)
	}
	if !found {
		return -1, false
	}
	if _, err := buf.CheckListBounds(len(b), off+format.FMapHeaderSize,
		int(format.ReadU16(b, off+format.FMapNAreasOffset)), format.FMapAreaSize); err != nil {
		return -1, false
	}
	return off, true
}

func fmapLinearSearch(b []byte) (int, bool) {
	for off := 0; off < len(b)-format.FMapSignatureSize; off++ {
		if isValidFMap(b, off) {
			return off, true
		}
	}
	return -1, false
}

func fmapStridedSearch(b []byte) (int, bool) {
	for stride := len(b) / 2; stride >= format.FMapMinStride; stride /= 2 {
		for off := 0; off < len(b)-format.FMapSignatureSize; off += stride {
			// Offsets on the previous stride were already probed.
			if off%(stride*2) == 0 && off != 0 {
				continue
			}
			if isValidFMap(b, off) {
				return off, true
			}
		}
	}
	return -1, false
}

// fmapSize returns the encoded size of the FMAP at off, header included.
func fmapSize(b []byte, off int) int {
	return format.FMapHeaderSize + int(format.ReadU16(b, off+format.FMapNAreasOffset))*format.FMapAreaSize
}

func isValidFMap(b []byte, off int) bool {
	h, ok := buf.Slice(b, off, format.FMapHeaderSize)
	if !ok {
		return false
	}
	if !bytes.Equal(h[:format.FMapSignatureSize], format.FMapSignature) {
		return false
	}
	// strings containing the magic tend to fail here
	if h[format.FMapVerMajorOffset] != format.FMapVersionMajor {
		return false
	}
	need := uint64(format.FMapHeaderSize) +
		uint64(format.ReadU16(h, format.FMapNAreasOffset))*format.FMapAreaSize
	if uint64(format.ReadU32(h, format.FMapSizeOffset)) < need {
		return false
	}

	// The name must be a printable, space-free word terminated inside the field.
	name := h[format.FMapNameOffset : format.FMapNameOffset+format.FMapStrLen]
	for i, c := range name {
		if c == 0 {
			return true
		}
		if c <= ' ' || c > '~' || i == format.FMapStrLen-1 {
			return false
		}
	}
	return false
}
