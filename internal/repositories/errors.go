package repositories

import "errors"

// ErrNotFound is returned when a lookup, update or delete matches no row
var ErrNotFound = errors.New("record not found")
