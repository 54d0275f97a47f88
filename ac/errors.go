package ac

import "errors"

// ErrIntegrity is returned when a self-check's decoded output does not
// match the input that was encoded.
var ErrIntegrity = errors.New("ac: decoded output does not match input")
