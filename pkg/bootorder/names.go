package bootorder

import "github.com/joshuapare/bootkit/internal/format"

// Names lists where the boot artifacts live in an image.
type Names struct {
	// Primary is the CBFS region holding the entries.
	Primary string
	// OrderRegion and OrderEntry hold the padded order artifact.
	OrderRegion string
	OrderEntry  string
	// DefEntry holds the unpadded order artifact, the firmware's defaults.
	DefEntry string
	// MapRegion and MapEntry hold the map artifact.
	MapRegion string
	MapEntry  string
	// Alignment of entries written to the CBFS.
	Alignment int
}

// DefaultNames returns the names coreboot builds use.
func DefaultNames() Names {
	return Names{
		Primary:     format.SectionPrimaryCBFS,
		OrderRegion: "BOOTORDER",
		OrderEntry:  "bootorder",
		DefEntry:    "bootorder_def",
		MapRegion:   "BOOTORDER_MAP",
		MapEntry:    "bootorder_map",
		Alignment:   0x1000,
	}
}

// withDefaults fills empty fields of n from DefaultNames.
func (n Names) withDefaults() Names {
	d := DefaultNames()
	if n.Primary == "" {
		n.Primary = d.Primary
	}
	if n.OrderRegion == "" {
		n.OrderRegion = d.OrderRegion
	}
	if n.OrderEntry == "" {
		n.OrderEntry = d.OrderEntry
	}
	if n.DefEntry == "" {
		n.DefEntry = d.DefEntry
	}
	if n.MapRegion == "" {
		n.MapRegion = d.MapRegion
	}
	if n.MapEntry == "" {
		n.MapEntry = d.MapEntry
	}
	if n.Alignment == 0 {
		n.Alignment = d.Alignment
	}
	return n
}
