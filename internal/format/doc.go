// Package format houses the on-flash layouts of coreboot images: the FMAP
// header with its area records and the CBFS file record with its
// attributes. It holds offsets, constants and endian helpers only, so the
// flash and flash/cbfs packages can share one definition of the bytes.
package format
