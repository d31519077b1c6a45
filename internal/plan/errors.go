package plan

import "errors"

var (
	// ErrNotFound is returned by repositories when no plan has the requested id.
	ErrNotFound = errors.New("lesson plan not found")

	// ErrUnknownField is returned for a field path that does not name a
	// field of the plan.
	ErrUnknownField = errors.New("unknown field")

	// ErrIndexOutOfRange is returned when a section index does not exist.
	ErrIndexOutOfRange = errors.New("section index out of range")

	// ErrInvalidValue is returned for an enum value outside its domain.
	ErrInvalidValue = errors.New("invalid value")
)
