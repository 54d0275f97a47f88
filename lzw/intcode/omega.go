package intcode

import (
	"math/bits"

	"github.com/icza/bitio"
)

// Omega is the Elias omega code: recursively prepend size(n), shrinking
// n to size(n)-1 each step, seeded from the original n and terminated
// by a 0 bit. 1 encodes to a bare 0.
type Omega struct{}

func (Omega) Fill() bool { return true }

func (Omega) Encode(w *bitio.Writer, n uint64) error {
	if n == 0 {
		return errZero
	}

	var values []uint64
	var sizes []int
	for n > 1 {
		size := bits.Len64(n)
		values = append(values, n)
		sizes = append(sizes, size)
		n = uint64(size - 1)
	}

	for i := len(values) - 1; i >= 0; i-- {
		if err := w.WriteBits(values[i], uint8(sizes[i])); err != nil {
			return err
		}
	}
	return w.WriteBits(0, 1)
}

func (Omega) Decode(r *bitio.Reader) (uint64, bool, error) {
	value := uint64(1)
	for {
		bit, eof, err := readBit(r)
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, false, nil
		}
		if !bit {
			return value, true, nil
		}

		next := uint64(1)
		for i := uint64(0); i < value; i++ {
			b, eof, err := readBit(r)
			if err != nil {
				return 0, false, err
			}
			if eof {
				return 0, false, nil
			}
			var bb uint64
			if b {
				bb = 1
			}
			next = next<<1 | bb
		}
		value = next
	}
}
