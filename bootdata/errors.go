package bootdata

import (
	"errors"
	"fmt"
)

var (
	// ErrMapMismatch indicates the order artifact disagrees with the device
	// counts declared by the map artifact.
	ErrMapMismatch = errors.New("bootdata: order does not match map")
	// ErrOversize indicates an order artifact too large to pad to one sector.
	ErrOversize = errors.New("bootdata: content too large to pad")
	// ErrUnknownRecord indicates a record name not present in the configuration.
	ErrUnknownRecord = errors.New("bootdata: unknown boot record")
	// ErrUnknownOption indicates a keyword not present in the option table.
	ErrUnknownOption = errors.New("bootdata: unknown option")
	// ErrInvalidValue indicates a value the option's kind cannot take.
	ErrInvalidValue = errors.New("bootdata: invalid option value")
	// ErrInvalidSetting indicates a setting not of the form keyword=value.
	ErrInvalidSetting = errors.New("bootdata: invalid option setting")
)

// MapMismatchError reports the order line at which device data stopped
// agreeing with the map.
type MapMismatchError struct {
	// Line is the 1-based line number in the order artifact, or 0 when the
	// order artifact ran out before every record was filled.
	Line   int
	Text   string
	Reason string
}

func (e *MapMismatchError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("bootdata: order does not match map: %s", e.Reason)
	}
	return fmt.Sprintf("bootdata: order does not match map at line %d %q: %s", e.Line, e.Text, e.Reason)
}

// Is makes errors.Is(err, ErrMapMismatch) match.
func (e *MapMismatchError) Is(target error) bool {
	return target == ErrMapMismatch
}

// OversizeError reports content that cannot be padded to SectorSize.
type OversizeError struct {
	Size  int
	Limit int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("bootdata: boot order is %d bytes, at most %d fit in one %d byte sector",
		e.Size, e.Limit, SectorSize)
}

// Is makes errors.Is(err, ErrOversize) match.
func (e *OversizeError) Is(target error) bool {
	return target == ErrOversize
}
