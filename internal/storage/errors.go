package storage

import "errors"

// ErrNoPosition is returned when an operation requires an open position and
// none exists.
var ErrNoPosition = errors.New("no open position")
