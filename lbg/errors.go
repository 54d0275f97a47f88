package lbg

import "errors"

// ErrFormat is returned when a TGA stream is truncated or malformed.
var ErrFormat = errors.New("lbg: malformed TGA stream")

// ErrArgument is returned for invalid quantiser parameters, such as a
// target codebook size of zero.
var ErrArgument = errors.New("lbg: invalid argument")
