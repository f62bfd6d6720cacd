package storage

import "errors"

// Storage error constants
var (
	// ErrBrandNotFound is returned when a brand is not found
	ErrBrandNotFound = errors.New("brand not found")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrEngineNotFound is returned when an engine is not found
	ErrEngineNotFound = errors.New("engine not found")

	// ErrModelNotFound is returned when a model is not found
	ErrModelNotFound = errors.New("model not found")

	// ErrCarNotFound is returned when a car is not found
	ErrCarNotFound = errors.New("car not found")

	// ErrVersionConflict is returned when an optimistic update carries a
	// stale version counter; the caller must re-fetch and retry
	ErrVersionConflict = errors.New("row was modified by another transaction")

	// ErrDuplicateName is returned when a unique name constraint is violated
	ErrDuplicateName = errors.New("name already exists")

	// ErrDuplicateSerialNumber is returned when a car serial number collides
	ErrDuplicateSerialNumber = errors.New("serial number already exists")

	// ErrConstraintViolation is returned when a foreign key constraint is
	// violated, e.g. deleting a brand that still has models
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidSortField is returned when a list request names a sort
	// field outside the entity's whitelist
	ErrInvalidSortField = errors.New("invalid sort field")
)
