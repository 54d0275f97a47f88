package intcode

import (
	"sort"

	"github.com/icza/bitio"
)

// fibTable[i] holds F(i+2): fibTable[0] = F2 = 1, fibTable[1] = F3 = 2,
// and so on up to F90, the largest Fibonacci number not above 2^62,
// comfortably covering n up to 2^60.
var fibTable = buildFibTable()

func buildFibTable() []uint64 {
	t := []uint64{1, 2}
	for {
		next := t[len(t)-1] + t[len(t)-2]
		if next > uint64(1)<<62 {
			break
		}
		t = append(t, next)
	}
	return t
}

// Fibonacci is the Zeckendorf code: the greedy decomposition of n into
// distinct non-consecutive Fibonacci numbers, emitted F2-upward and
// terminated by an extra 1 bit (producing the canonical "...11" tail).
type Fibonacci struct{}

func (Fibonacci) Fill() bool { return false }

func (Fibonacci) Encode(w *bitio.Writer, n uint64) error {
	if n == 0 {
		return errZero
	}

	var idxs []int
	remaining := n
	for remaining > 0 {
		idx := sort.Search(len(fibTable), func(i int) bool { return fibTable[i] > remaining }) - 1
		idxs = append(idxs, idx)
		remaining -= fibTable[idx]
	}

	maxIdx := idxs[0]
	used := make([]bool, maxIdx+1)
	for _, idx := range idxs {
		used[idx] = true
	}
	for i := 0; i <= maxIdx; i++ {
		var b uint64
		if used[i] {
			b = 1
		}
		if err := w.WriteBits(b, 1); err != nil {
			return err
		}
	}
	return w.WriteBits(1, 1)
}

func (Fibonacci) Decode(r *bitio.Reader) (uint64, bool, error) {
	var sum uint64
	prev := false
	i := 0
	for {
		bit, eof, err := readBit(r)
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, false, nil
		}
		if bit && prev {
			return sum, true, nil
		}
		if bit {
			if i >= len(fibTable) {
				return 0, false, errOverflow
			}
			sum += fibTable[i]
		}
		prev = bit
		i++
	}
}
