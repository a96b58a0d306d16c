// Package bootorder loads and stores the boot configuration of a coreboot
// image.
//
// The order artifact lives either in a dedicated BOOTORDER flash region or
// in a "bootorder" file of the primary CBFS; the map artifact likewise in a
// BOOTORDER_MAP region or a "bootorder_map" file. Load tries the region
// first and remembers which one answered, so Store writes each artifact back
// where it came from.
//
// Most callers only need Edit:
//
//	err := bootorder.Edit("coreboot.rom", func(c *bootdata.Config) error {
//	    if err := c.MoveNames([]string{"USB"}); err != nil {
//	        return err
//	    }
//	    return c.ApplySetting("pxen=off")
//	}, &bootorder.Options{CreateBackup: true})
//
// Store is not transactional: it writes the unpadded order copy, then the
// padded copy, then the map, and stops at the first failure.
package bootorder
