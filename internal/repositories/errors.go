package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with context, so callers must check it
// with errors.Is.
var ErrNotFound = errors.New("record not found")
