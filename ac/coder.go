package ac

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/icza/bitio"
)

// The coder works in a 60-bit code space: low and high are always held
// to exactly 60 significant bits. 128-bit intermediate products (via
// math/bits.Mul64/Div64) keep the range-narrowing multiply-then-divide
// exact for widths and totals that would overflow 64 bits if multiplied
// directly.
const (
	codeBits = 60
	topBit   = uint64(1) << (codeBits - 1)
	codeMask = topBit - 1
	highInit = (uint64(1) << codeBits) - 1
)

// mulDiv computes floor(a*b/c) using a 128-bit intermediate product, for
// c > 0 and a quotient that fits in 64 bits (guaranteed by the caller's
// choice of c relative to a*b).
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// mulSubOneDiv computes floor((a*b-1)/c) using a 128-bit intermediate,
// handling the borrow out of the low limb when a*b's low 64 bits are 0.
func mulSubOneDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if lo == 0 {
		hi--
	}
	lo--
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// narrowRange computes the updated [low, high] after committing to the
// sub-interval [lo, hi) of [0, total).
func narrowRange(low, high, lo, hi, total uint64) (newLow, newHigh uint64) {
	width := high + 1 - low
	newLow = mulDiv(width, lo, total) + low
	newHigh = mulDiv(width, hi, total) + low - 1
	return
}

// Encoder performs adaptive order-0 arithmetic coding against a
// FreqTree, emitting bits through a bitio.Writer as the working
// interval renormalizes.
type Encoder struct {
	tree      *FreqTree
	low, high uint64
	w         *bitio.Writer
	finished  bool
}

// NewEncoder creates an Encoder that writes its bitstream to w and
// adapts tree as symbols are encoded.
func NewEncoder(w io.Writer, tree *FreqTree) *Encoder {
	return &Encoder{tree: tree, high: highInit, w: bitio.NewWriter(w)}
}

// EncodeSymbol narrows the working interval to symbol's adaptive range
// and increments its frequency.
func (e *Encoder) EncodeSymbol(symbol byte) error {
	if e.finished {
		return fmt.Errorf("ac: EncodeSymbol after Finish")
	}
	total := e.tree.Total()
	lo, hi := e.tree.RangeAndInc(symbol)
	e.narrow(lo, hi, total)
	return e.w.TryError
}

// Write encodes every byte of data in order. It implements io.Writer.
func (e *Encoder) Write(data []byte) (int, error) {
	for i, b := range data {
		if err := e.EncodeSymbol(b); err != nil {
			return i, err
		}
	}
	return len(data), nil
}

// Finish emits the implicit EOF symbol, renormalizes, writes the final
// disambiguating bit, and flushes the bitstream to a byte boundary.
// No further symbols may be encoded afterward.
func (e *Encoder) Finish() error {
	if e.finished {
		return nil
	}
	e.finished = true

	lo, hi := e.tree.EOFRange()
	e.narrow(lo, hi, e.tree.Total())

	var bit uint64
	if e.high&topBit != 0 {
		bit = 1
	}
	e.w.TryWriteBits(bit, 1)
	if e.w.TryError != nil {
		return e.w.TryError
	}
	return e.w.Close()
}

func (e *Encoder) narrow(lo, hi, total uint64) {
	e.low, e.high = narrowRange(e.low, e.high, lo, hi, total)
	for e.low&topBit == e.high&topBit {
		var bit uint64
		if e.low&topBit != 0 {
			bit = 1
		}
		e.w.TryWriteBits(bit, 1)
		e.low = (e.low & codeMask) << 1
		e.high = ((e.high & codeMask) << 1) | 1
	}
}

// Decoder is the inverse of Encoder: it reads the same bitstream shape
// and reconstructs the original byte sequence, adapting an identical
// FreqTree in lockstep.
type Decoder struct {
	tree      *FreqTree
	low, high uint64
	code      uint64
	r         *bitio.Reader
	readErr   error
}

// NewDecoder creates a Decoder reading from r, priming its 60-bit code
// register from the first bits of the stream.
func NewDecoder(r io.Reader, tree *FreqTree) *Decoder {
	d := &Decoder{tree: tree, high: highInit, r: bitio.NewReader(r)}
	for i := 0; i < codeBits; i++ {
		d.code = (d.code << 1) | d.readBit()
	}
	return d
}

// readBit reads one bit, treating end-of-stream as an implicit run of
// zero bits (the decoder's EOF check fires before these would matter on
// a well-formed stream).
func (d *Decoder) readBit() uint64 {
	b, err := d.r.ReadBits(1)
	if err != nil {
		if err != io.EOF {
			d.readErr = err
		}
		return 0
	}
	return b
}

// Decode reads symbols until the implicit EOF symbol is found, returning
// the decoded byte sequence.
func (d *Decoder) Decode() ([]byte, error) {
	var out []byte
	for {
		total := d.tree.Total()
		idx := mulSubOneDiv(d.code-d.low+1, total, d.high-d.low+1)
		if d.tree.IsEOF(idx) {
			break
		}
		symbol, lo, hi := d.tree.LookupAndInc(idx)
		out = append(out, symbol)

		d.low, d.high = narrowRange(d.low, d.high, lo, hi, total)
		for d.low&topBit == d.high&topBit {
			d.low = (d.low & codeMask) << 1
			d.high = ((d.high & codeMask) << 1) | 1
			d.code = ((d.code & codeMask) << 1) | d.readBit()
		}

		if d.readErr != nil {
			return out, fmt.Errorf("ac: reading compressed stream: %w", d.readErr)
		}
	}
	return out, nil
}
