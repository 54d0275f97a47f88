package intcode

import (
	"math/bits"

	"github.com/icza/bitio"
)

// Gamma is the Elias gamma code: floor(log2 n) zeros followed by the
// floor(log2 n)+1-bit binary representation of n, MSB first.
type Gamma struct{}

func (Gamma) Fill() bool { return false }

func (Gamma) Encode(w *bitio.Writer, n uint64) error {
	if n == 0 {
		return errZero
	}
	size := bits.Len64(n)
	for i := 0; i < size-1; i++ {
		if err := w.WriteBits(0, 1); err != nil {
			return err
		}
	}
	return w.WriteBits(n, uint8(size))
}

func (Gamma) Decode(r *bitio.Reader) (uint64, bool, error) {
	zeros := 0
	for {
		bit, eof, err := readBit(r)
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, false, nil
		}
		if bit {
			break
		}
		zeros++
	}

	v := uint64(1)
	for i := 0; i < zeros; i++ {
		bit, eof, err := readBit(r)
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, false, nil
		}
		var b uint64
		if bit {
			b = 1
		}
		v = v<<1 | b
	}
	return v, true, nil
}
