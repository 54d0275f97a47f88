// Package intcode implements the four universal integer codecs used to
// frame the LZW dictionary index stream: Elias gamma, Elias delta,
// Elias omega, and Zeckendorf/Fibonacci coding. Each is a prefix code
// defined for every positive integer, selected polymorphically through
// the Codec interface.
package intcode

import (
	"errors"
	"io"

	"github.com/icza/bitio"
)

// Codec is a pluggable universal integer code: a capability bundle of
// encode, decode, and the fill bit written at the end of an encoded
// stream (see Fill).
type Codec interface {
	// Encode writes n's codeword to w. n must be >= 1.
	Encode(w *bitio.Writer, n uint64) error
	// Decode reads one codeword from r. ok is false when the remaining
	// bitstream cannot contain a complete codeword (clean end of
	// stream); err is non-nil only on an unexpected I/O failure.
	Decode(r *bitio.Reader) (n uint64, ok bool, err error)
	// Fill is the codec's padding bit. When it is true, lzw.Encode writes
	// seven 1 bits after the last codeword before bitio.Writer.Close pads
	// the final byte with zeros; when it is false, only the zero padding
	// is written.
	Fill() bool
}

// ByName returns the Codec registered under name ("gamma", "delta",
// "omega", or "fib"), or nil if name is unrecognised.
func ByName(name string) Codec {
	switch name {
	case "gamma":
		return Gamma{}
	case "delta":
		return Delta{}
	case "omega":
		return Omega{}
	case "fib":
		return Fibonacci{}
	default:
		return nil
	}
}

var (
	errZero     = errors.New("intcode: n must be >= 1")
	errOverflow = errors.New("intcode: codeword exceeds the supported integer range")
)

// readBit reads a single bit, reporting eof=true on a clean end of
// stream instead of an error.
func readBit(r *bitio.Reader) (bit bool, eof bool, err error) {
	b, err := r.ReadBits(1)
	if err != nil {
		if err == io.EOF {
			return false, true, nil
		}
		return false, false, err
	}
	return b == 1, false, nil
}
