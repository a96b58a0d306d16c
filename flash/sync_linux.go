//go:build linux || freebsd

package flash

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile uses fdatasync; file metadata other than size is irrelevant here.
func syncFile(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
