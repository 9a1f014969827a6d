package types

import "errors"

// Lookup errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrInvalidID = errors.New("invalid entity ID")
)

// Validation errors for model values.
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidFieldType   = errors.New("invalid field type")
	ErrInvalidCardinality = errors.New("invalid cardinality")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrFieldNotFound      = errors.New("field not found")
	ErrRelNotFound        = errors.New("relationship not found")
	ErrSchemaNotFound     = errors.New("schema not found")
)
