package domain

import "errors"

// ErrNotFound is returned by repositories when an id does not resolve to a row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateName is returned when the storage layer's unique index on
// categories.name rejects a write that raced past validation.
var ErrDuplicateName = errors.New("duplicate category name")
