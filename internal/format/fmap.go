package format

// FMAP (flash map) layout. All multi-byte fields are little-endian.
//
//	0x00  [8]u8   signature "__FMAP__"
//	0x08  u8      major version
//	0x09  u8      minor version
//	0x0A  u64     base address of the flash image
//	0x12  u32     image size in bytes
//	0x16  [32]u8  image name, NUL terminated
//	0x36  u16     number of areas
//	0x38  areas[]
//
// Each area record:
//
//	0x00  u32     offset from the start of the image
//	0x04  u32     size in bytes
//	0x08  [32]u8  area name, NUL terminated
//	0x28  u16     flags
var FMapSignature = []byte("__FMAP__")

const (
	FMapVersionMajor = 1
	FMapVersionMinor = 1

	// FMapStrLen is the width of every name field, terminator included.
	FMapStrLen = 32

	FMapSignatureOffset = 0x00
	FMapSignatureSize   = 8
	FMapVerMajorOffset  = 0x08
	FMapVerMinorOffset  = 0x09
	FMapBaseOffset      = 0x0A
	FMapSizeOffset      = 0x12
	FMapNameOffset      = 0x16
	FMapNAreasOffset    = 0x36

	// FMapHeaderSize is the size of the fixed header before the area records.
	FMapHeaderSize = 0x38

	FMapAreaOffsetOffset = 0x00
	FMapAreaSizeOffset   = 0x04
	FMapAreaNameOffset   = 0x08
	FMapAreaFlagsOffset  = 0x28

	// FMapAreaSize is the size of one area record.
	FMapAreaSize = 0x2A

	// FMapMinStride is the smallest probe stride of the power-of-two search.
	FMapMinStride = 16
)

// Area flags.
const (
	FMapAreaStatic     = 1 << 0
	FMapAreaCompressed = 1 << 1
	FMapAreaRO         = 1 << 2
	FMapAreaPreserve   = 1 << 3
)

// Well-known area names.
const (
	// SectionFMap is the area describing the FMAP itself.
	SectionFMap = "FMAP"
	// SectionPrimaryCBFS is the area holding the primary CBFS, and the only
	// region name accepted for images without an FMAP.
	SectionPrimaryCBFS = "COREBOOT"
)
