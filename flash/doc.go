/*
Package flash opens coreboot-style flash images and gives byte-exact access
to the named regions described by the image's FMAP.

# Regions and aliasing

An Image owns a single buffer holding the whole file. ReadRegion does not
copy: the returned Region is an offset/size window over that buffer, so
writes through one Region are visible through every other Region that
overlaps the same bytes. Nothing reaches the disk until WriteRegion is
called with the Region.

	img, err := flash.Open("coreboot.rom", &flash.OpenOptions{Write: true})
	if err != nil {
	    return err
	}
	defer img.Close()

	r, err := img.ReadRegion("BOOTORDER")
	if err != nil {
	    return err
	}
	copy(r.Bytes(), newContents)
	if err := img.WriteRegion(r); err != nil {
	    return err
	}

# Legacy images

When no FMAP is found the image is treated as a single CBFS region named
COREBOOT spanning the whole file; every other region name fails with
ErrUnsupported.

# Locking

Open takes an exclusive advisory lock on the file for the lifetime of the
Image. A second writer gets ErrLocked instead of blocking. An Image is not
safe for concurrent use.
*/
package flash
