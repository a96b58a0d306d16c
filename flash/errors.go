package flash

import (
	"errors"
	"fmt"
)

var (
	// ErrIO wraps open, read, seek and write failures on the backing file.
	ErrIO = errors.New("flash: i/o error")
	// ErrLocked indicates another process holds the image lock.
	ErrLocked = errors.New("flash: image is locked by another process")
	// ErrCorruptImage indicates the FMAP failed structural validation.
	ErrCorruptImage = errors.New("flash: corrupt image")
	// ErrRegionNotFound indicates a named region is missing or runs off the image.
	ErrRegionNotFound = errors.New("flash: region not found")
	// ErrUnsupported indicates an operation legacy images cannot serve.
	ErrUnsupported = errors.New("flash: unsupported")
	// ErrForeignRegion indicates a Region handed to WriteRegion came from another Image.
	ErrForeignRegion = errors.New("flash: region belongs to a different image")
	// ErrOutOfBounds indicates a Region window outside the image buffer.
	ErrOutOfBounds = errors.New("flash: region out of bounds")
	// ErrClosed indicates use of an Image after Close.
	ErrClosed = errors.New("flash: image is closed")

	// ErrReadOnly indicates a write on an image opened without write access.
	ErrReadOnly = fmt.Errorf("%w: image opened read-only", ErrIO)
)
