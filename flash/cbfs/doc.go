// Package cbfs edits the file directory of a coreboot CBFS region in memory.
//
// A Store works directly on a region's bytes, typically a flash.Region:
//
//	r, _ := img.ReadRegion("COREBOOT")
//	st, err := cbfs.Open(r.Bytes())
//	if err != nil {
//	    return err
//	}
//	if err := st.Add("bootorder", cbfs.TypeRaw, data, 0x1000); err != nil {
//	    return err
//	}
//	return img.WriteRegion(r)
//
// Records are packed from the start of the region on 64-byte boundaries.
// The directory ends at the first offset without a record magic, at a NULL
// type record, or at the end of the region. Remove repacks the following
// records so no gap is left behind, and Add appends after the last record.
// Payload alignment is stored in an alignment attribute so that repacking
// keeps every payload on its original boundary.
//
// The Store never touches a file. Persisting the region is the caller's job.
package cbfs
