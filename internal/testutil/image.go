// Package testutil builds synthetic flash images for tests. Nothing here
// depends on the packages under test, so any of them can import it.
package testutil

import (
	"testing"

	"github.com/joshuapare/bootkit/internal/format"
)

// Area describes one FMAP area record.
type Area struct {
	Name   string
	Offset uint32
	Size   uint32
	Flags  uint16
}

// FMapOpts configures an FMAP header.
type FMapOpts struct {
	Name  string
	Base  uint64
	Major uint8
	Minor uint8
	// Size is the declared image size. Zero means "fill in from the image".
	Size  uint32
	Areas []Area
	// Mutate runs on the encoded header, for corruption tests.
	Mutate func(h []byte)
}

// FMap encodes an FMAP header plus its area records.
func FMap(t *testing.T, o FMapOpts) []byte {
	t.Helper()

	if o.Major == 0 {
		o.Major = format.FMapVersionMajor
	}
	if o.Minor == 0 {
		o.Minor = format.FMapVersionMinor
	}
	if o.Name == "" {
		o.Name = "FLASH"
	}

	h := make([]byte, format.FMapHeaderSize+len(o.Areas)*format.FMapAreaSize)
	copy(h[format.FMapSignatureOffset:], format.FMapSignature)
	h[format.FMapVerMajorOffset] = o.Major
	h[format.FMapVerMinorOffset] = o.Minor
	format.PutU64(h, format.FMapBaseOffset, o.Base)
	format.PutU32(h, format.FMapSizeOffset, o.Size)
	format.PutCString(h[format.FMapNameOffset:format.FMapNameOffset+format.FMapStrLen], o.Name)
	format.PutU16(h, format.FMapNAreasOffset, uint16(len(o.Areas)))

	for i, a := range o.Areas {
		rec := h[format.FMapHeaderSize+i*format.FMapAreaSize:]
		format.PutU32(rec, format.FMapAreaOffsetOffset, a.Offset)
		format.PutU32(rec, format.FMapAreaSizeOffset, a.Size)
		format.PutCString(rec[format.FMapAreaNameOffset:format.FMapAreaNameOffset+format.FMapStrLen], a.Name)
		format.PutU16(rec, format.FMapAreaFlagsOffset, a.Flags)
	}

	if o.Mutate != nil {
		o.Mutate(h)
	}
	return h
}

// ImageOpts configures a whole flash image.
type ImageOpts struct {
	// Size of the image in bytes.
	Size int
	// FMapOffset is where the FMAP header is placed. Ignored when NoFMap is set.
	FMapOffset int
	NoFMap     bool
	FMap       FMapOpts
	// Fill is the byte used for unwritten space (erased flash is 0xff).
	Fill byte
	// Contents maps area names to bytes copied at the start of that area.
	Contents map[string][]byte
}

// Image builds a flash image. Areas listed in o.FMap.Areas receive their
// Contents; an FMAP area, when present, should point at FMapOffset.
func Image(t *testing.T, o ImageOpts) []byte {
	t.Helper()

	img := make([]byte, o.Size)
	if o.Fill != 0 {
		for i := range img {
			img[i] = o.Fill
		}
	}

	if o.NoFMap {
		if data, ok := o.Contents[format.SectionPrimaryCBFS]; ok {
			copy(img, data)
		}
		return img
	}

	if o.FMap.Size == 0 {
		o.FMap.Size = uint32(o.Size)
	}
	hdr := FMap(t, o.FMap)
	if o.FMapOffset+len(hdr) > len(img) {
		t.Fatalf("fmap at 0x%x (%d bytes) does not fit a %d byte image", o.FMapOffset, len(hdr), len(img))
	}

	for _, a := range o.FMap.Areas {
		data, ok := o.Contents[a.Name]
		if !ok {
			continue
		}
		if len(data) > int(a.Size) || int(a.Offset)+len(data) > len(img) {
			t.Fatalf("contents of %s (%d bytes) do not fit the area", a.Name, len(data))
		}
		copy(img[a.Offset:], data)
	}
	copy(img[o.FMapOffset:], hdr)
	return img
}

// Standard layout of a 64 KiB image used across tests.
const (
	StdImageSize     = 0x10000
	StdFMapOffset    = 0x1000
	StdFMapSize      = 0x400
	StdBootOrderOff  = 0x2000
	StdBootOrderSize = 0x1000
	StdCorebootOff   = 0x4000
	StdCorebootSize  = 0xC000
)

// StandardAreas returns the FMAP areas of the standard test layout. When
// withBootOrder is false the BOOTORDER area is omitted.
func StandardAreas(withBootOrder bool) []Area {
	areas := []Area{
		{Name: format.SectionFMap, Offset: StdFMapOffset, Size: StdFMapSize, Flags: format.FMapAreaStatic},
	}
	if withBootOrder {
		areas = append(areas, Area{Name: "BOOTORDER", Offset: StdBootOrderOff, Size: StdBootOrderSize})
	}
	return append(areas, Area{Name: format.SectionPrimaryCBFS, Offset: StdCorebootOff, Size: StdCorebootSize})
}

// StandardImage builds the standard 64 KiB layout with erased (0xff) free space.
func StandardImage(t *testing.T, withBootOrder bool, contents map[string][]byte) []byte {
	t.Helper()
	return Image(t, ImageOpts{
		Size:       StdImageSize,
		FMapOffset: StdFMapOffset,
		FMap:       FMapOpts{Name: "TEST_FLASH", Areas: StandardAreas(withBootOrder)},
		Fill:       format.CBFSErased,
		Contents:   contents,
	})
}
