//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package flash

import "os"

// Advisory locks are not available here; callers get no cross-process
// protection.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
