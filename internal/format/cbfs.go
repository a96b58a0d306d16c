package format

// CBFS file record layout. Header fields are big-endian.
//
//	0x00  [8]u8  magic "LARCHIVE"
//	0x08  u32    payload length
//	0x0C  u32    file type
//	0x10  u32    attributes offset from record start (0 = none)
//	0x14  u32    payload offset from record start
//	0x18  name, NUL terminated, padded to CBFSNameAlign
//	....  attributes (tag u32, size u32, data)
//	....  payload
var CBFSFileMagic = []byte("LARCHIVE")

const (
	CBFSMagicOffset      = 0x00
	CBFSMagicSize        = 8
	CBFSLenOffset        = 0x08
	CBFSTypeOffset       = 0x0C
	CBFSAttrOffsetOffset = 0x10
	CBFSDataOffsetOffset = 0x14

	// CBFSFileHeaderSize is the fixed part of a record, before the name.
	CBFSFileHeaderSize = 0x18

	// CBFSAlignment is the alignment of every record start.
	CBFSAlignment = 64

	// CBFSNameAlign pads the NUL-terminated name.
	CBFSNameAlign = 16

	// CBFSAttrHeaderSize is the tag+size prefix of an attribute.
	CBFSAttrHeaderSize = 8

	// CBFSAttrTagAlignment marks a u32 payload alignment attribute.
	CBFSAttrTagAlignment  = 0x42434c41
	CBFSAttrAlignmentSize = CBFSAttrHeaderSize + 4

	// CBFSAttrTagUnused terminates an attribute list in erased flash.
	CBFSAttrTagUnused  = 0
	CBFSAttrTagUnused2 = 0xffffffff

	// CBFSErased is the value of unwritten flash bytes.
	CBFSErased = 0xff
)

// CBFS file types.
const (
	CBFSTypeDeleted     = 0x00000000
	CBFSTypeStage       = 0x10
	CBFSTypeSELF        = 0x20
	CBFSTypeFIT         = 0x21
	CBFSTypeOptionROM   = 0x30
	CBFSTypeBootsplash  = 0x40
	CBFSTypeRaw         = 0x50
	CBFSTypeVSA         = 0x51
	CBFSTypeMBI         = 0x52
	CBFSTypeMicrocode   = 0x53
	CBFSTypeFSP         = 0x60
	CBFSTypeMRC         = 0x61
	CBFSTypeMMA         = 0x62
	CBFSTypeEFI         = 0x63
	CBFSTypeStruct      = 0x70
	CBFSTypeCMOSDefault = 0xaa
	CBFSTypeSPD         = 0xab
	CBFSTypeMRCCache    = 0xac
	CBFSTypeCMOSLayout  = 0x01aa
	CBFSTypeNull        = 0xffffffff
)
