package lzw

import "errors"

// ErrUnknownCodec is returned when a caller names an integer codec that
// intcode.ByName does not recognise.
var ErrUnknownCodec = errors.New("lzw: unknown integer codec")
