package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the metric and layer engine
var (
	ErrIndexOutOfRange = errors.New("time index out of range")
	ErrUnknownCategory = errors.New("unknown category")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrCoordinateParse = errors.New("coordinate parse error")
	ErrRegionNotFound  = errors.New("region not found")
)

// CoordinateParseError rejects a single region whose location could not be parsed
type CoordinateParseError struct {
	RegionID string
	Field    string
	Value    string
	Err      error
}

func (e *CoordinateParseError) Error() string {
	return fmt.Sprintf("region %q: invalid %s %q: %v", e.RegionID, e.Field, e.Value, e.Err)
}

func (e *CoordinateParseError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrCoordinateParse without losing the underlying cause
func (e *CoordinateParseError) Is(target error) bool {
	return target == ErrCoordinateParse
}
