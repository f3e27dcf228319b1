package store

import "errors"

// ErrNotFound is returned when a record does not exist. Owner-scoped
// task queries also return it when the record exists but belongs to a
// different user, so callers cannot tell the two cases apart.
var ErrNotFound = errors.New("not found")
