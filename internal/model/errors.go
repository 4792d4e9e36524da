package model

import "errors"

var (
	// ErrInvalidProvenance is returned when an AttributedTerm is constructed
	// without at least one source.
	ErrInvalidProvenance = errors.New("attributed term requires at least one source")

	// ErrTypeMismatch is returned when two identifiers of different kinds are
	// compared. Callers must compare like with like.
	ErrTypeMismatch = errors.New("cannot compare identifiers of different kinds")

	// ErrInvalidSerializationFormat is returned when a serialized object is
	// missing its type discriminator or carries one we do not recognize.
	ErrInvalidSerializationFormat = errors.New("invalid serialization format")

	// ErrDuplicateAssignment is reported when an entity key already assigned
	// to a group is offered to a second one. Grouping treats it as a no-op.
	ErrDuplicateAssignment = errors.New("entity key already assigned to a group")
)
