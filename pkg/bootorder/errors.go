package bootorder

import "errors"

var (
	// ErrBootDataNotFound indicates an artifact is in neither its region nor its entry.
	ErrBootDataNotFound = errors.New("bootorder: boot data not found")
	// ErrEntryNotFound indicates a CBFS entry that does not exist.
	ErrEntryNotFound = errors.New("bootorder: entry not found")
	// ErrNotLoaded indicates Store was called before a successful Load.
	ErrNotLoaded = errors.New("bootorder: boot data was not loaded")
)
