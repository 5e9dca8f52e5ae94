package repository

import "errors"

// ErrNotFound is returned when a requested key has no stored value.
var ErrNotFound = errors.New("not found")
