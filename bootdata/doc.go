// Package bootdata models the boot order and firmware options kept in a
// coreboot image as two text artifacts.
//
// The order artifact lists device paths, one per line, followed by one
// "<keyword><value>" line per option. The map artifact groups those device
// lines into named boot records: each line is "<tag> <record name>", and a
// run of lines sharing a tag describes one record with one device per line.
//
//	order:                      map:
//	/pci@i0cf8/usb@10/*@0\r\n   a USB\r\n
//	/pci@i0cf8/usb@10/*@1\r\n   a USB\r\n
//	/pci@i0cf8/sdhci@14,7\r\n   b SD card\r\n
//	pxen0\r\n
//	watchdog0000\r\n
//
// Parse correlates both into a Config, the mutation methods edit it in
// place, and DumpOrder, DumpMap and Pad serialize it byte for byte the way
// the firmware expects.
package bootdata
