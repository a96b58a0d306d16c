//go:build !linux && !freebsd

package flash

import "os"

func syncFile(f *os.File) error {
	return f.Sync()
}
