package cbfs

import (
	"fmt"

	"github.com/joshuapare/bootkit/internal/format"
)

// File types used by this package's callers.
const (
	TypeRaw  uint32 = format.CBFSTypeRaw
	TypeNull uint32 = format.CBFSTypeNull
)

// isEmptyType reports whether records of type t mark free space.
func isEmptyType(t uint32) bool {
	return t == format.CBFSTypeNull || t == format.CBFSTypeDeleted
}

var typeNames = map[uint32]string{
	format.CBFSTypeDeleted:     "deleted",
	format.CBFSTypeStage:       "stage",
	format.CBFSTypeSELF:        "simple elf",
	format.CBFSTypeFIT:         "fit",
	format.CBFSTypeOptionROM:   "optionrom",
	format.CBFSTypeBootsplash:  "bootsplash",
	format.CBFSTypeRaw:         "raw",
	format.CBFSTypeVSA:         "vsa",
	format.CBFSTypeMBI:         "mbi",
	format.CBFSTypeMicrocode:   "microcode",
	format.CBFSTypeFSP:         "fsp",
	format.CBFSTypeMRC:         "mrc",
	format.CBFSTypeMMA:         "mma",
	format.CBFSTypeEFI:         "efi",
	format.CBFSTypeStruct:      "struct",
	format.CBFSTypeCMOSDefault: "cmos_default",
	format.CBFSTypeSPD:         "spd",
	format.CBFSTypeMRCCache:    "mrc_cache",
	format.CBFSTypeCMOSLayout:  "cmos_layout",
	format.CBFSTypeNull:        "null",
}

// TypeName returns the cbfstool name of a file type, or its hex value.
func TypeName(t uint32) string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("0x%x", t)
}

// Entry describes one record of the directory. Offsets are relative to the
// start of the region.
type Entry struct {
	Name string
	Type uint32
	// Offset is where the record header starts.
	Offset int
	// DataOffset is where the payload starts.
	DataOffset int
	// Len is the payload length.
	Len int
	// Align is the payload alignment recorded in the entry's attributes, or 0.
	Align int

	end int
}

// Footprint is the number of region bytes the record occupies, including
// header, padding and payload.
func (e Entry) Footprint() int { return e.end - e.Offset }

// Empty reports whether the record only marks free space.
func (e Entry) Empty() bool { return isEmptyType(e.Type) }
