package intcode

import (
	"io"
	"math/bits"

	"github.com/icza/bitio"
)

// Delta is the Elias delta code: gamma(size(n)) followed by the low
// size(n)-1 bits of n, where size is n's binary length.
type Delta struct{}

func (Delta) Fill() bool { return false }

func (Delta) Encode(w *bitio.Writer, n uint64) error {
	if n == 0 {
		return errZero
	}
	size := bits.Len64(n)
	if err := (Gamma{}).Encode(w, uint64(size)); err != nil {
		return err
	}
	if size > 1 {
		return w.WriteBits(n, uint8(size-1))
	}
	return nil
}

func (Delta) Decode(r *bitio.Reader) (uint64, bool, error) {
	size64, ok, err := (Gamma{}).Decode(r)
	if err != nil || !ok {
		return 0, ok, err
	}
	size := int(size64)
	if size == 1 {
		return 1, true, nil
	}
	low, err := r.ReadBits(uint8(size - 1))
	if err != nil {
		if err == io.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(1)<<uint(size-1) | low, true, nil
}
