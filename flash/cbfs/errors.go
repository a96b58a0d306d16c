package cbfs

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptEntryTable indicates a record header that fails validation.
	ErrCorruptEntryTable = errors.New("cbfs: corrupt entry table")
	// ErrOutOfSpace indicates the region cannot hold a new record.
	ErrOutOfSpace = errors.New("cbfs: out of space")
	// ErrInvalidName indicates an empty entry name or one containing NUL.
	ErrInvalidName = errors.New("cbfs: invalid entry name")
	// ErrInvalidType indicates a file type reserved for free space.
	ErrInvalidType = errors.New("cbfs: invalid entry type")
	// ErrInvalidAlignment indicates an alignment that is not a power of two.
	ErrInvalidAlignment = errors.New("cbfs: invalid alignment")
)

// OutOfSpaceError reports how much room an Add needed.
type OutOfSpaceError struct {
	Name string
	Need int
	Free int
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("cbfs: no room for %q: need %d bytes, %d free", e.Name, e.Need, e.Free)
}

// Is makes errors.Is(err, ErrOutOfSpace) match.
func (e *OutOfSpaceError) Is(target error) bool {
	return target == ErrOutOfSpace
}

func corruptf(off int, format string, args ...any) error {
	return fmt.Errorf("%w: record at 0x%x: %s", ErrCorruptEntryTable, off, fmt.Sprintf(format, args...))
}
