package lzw

import (
	"bufio"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/goclassic/compress/lzw/intcode"
)

// DictSlots is the dictionary size the CLI uses: 10 * 1000 * 1024 =
// 10,240,000 slots.
const DictSlots = 10 * 1000 * 1024

// Report summarizes one Encode call: compressed and uncompressed byte
// counts, order-0 entropy of each side, average codeword length in
// bits per uncompressed byte, and compression ratio.
type Report struct {
	CompressedBytes     uint64
	UncompressedBytes   uint64
	EntropyUncompressed float64
	EntropyCompressed   float64
	AvgCodewordBits     float64
	CompressionRatio    float64
}

// countingWriter counts bytes written and tallies their order-0
// histogram, used to compute the compressed-side entropy report
// without a second pass over the output.
type countingWriter struct {
	w    io.Writer
	n    uint64
	hist [256]uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		c.hist[b]++
	}
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// Encode compresses all of r into w using a dictionary of the given
// slot count and speed variant, framed through codec, returning a
// Report of the run. Production callers pass DictSlots; tests may pass
// a smaller size to keep memory and runtime bounded.
func Encode(w io.Writer, r io.Reader, slots uint64, speed Speed, codec intcode.Codec) (*Report, error) {
	dict := NewDict(slots, speed)

	cw := &countingWriter{w: w}
	bw := bitio.NewWriter(cw)
	br := bufio.NewReader(r)

	var uCount [256]uint64
	var lastIndex, lastRealID uint64
	var uncompressed uint64

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lzw: reading input: %w", err)
		}
		uncompressed++
		uCount[c]++

		nextIndex := dict.hash(lastIndex, uint64(c))
		if realID, ok := dict.find(nextIndex, lastRealID); ok {
			lastIndex, lastRealID = nextIndex, realID
			continue
		}

		if err := codec.Encode(bw, lastRealID); err != nil {
			return nil, fmt.Errorf("lzw: writing codeword: %w", err)
		}

		if dict.Size() < int(dict.MaxSize()) {
			dict.insert(nextIndex, lastRealID, c)
		}
		if dict.Size() >= int(dict.MaxSize()) {
			dict.Reset()
		}

		lastRealID = dict.singleton[c]
		lastIndex = dict.at(lastRealID).hashIndex
	}

	if uncompressed == 0 {
		if err := bw.Close(); err != nil {
			return nil, fmt.Errorf("lzw: flushing output: %w", err)
		}
		return &Report{}, nil
	}

	if err := codec.Encode(bw, lastRealID); err != nil {
		return nil, fmt.Errorf("lzw: writing final codeword: %w", err)
	}
	// Close pads the last byte with zero bits, which Omega would read back
	// as extra codewords of value 1. For a codec whose fill bit is 1, seven
	// fill bits go first; what follows them is too short to complete a
	// codeword.
	if codec.Fill() {
		bw.TryWriteBits(0x7f, 7)
	}
	if err := bw.TryError; err != nil {
		return nil, fmt.Errorf("lzw: writing output: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("lzw: flushing output: %w", err)
	}

	report := &Report{
		CompressedBytes:     cw.n,
		UncompressedBytes:   uncompressed,
		EntropyUncompressed: entropyOf(uCount[:], uncompressed),
		EntropyCompressed:   entropyOf(cw.hist[:], sumCounts(cw.hist[:])),
	}
	if cw.n > 0 {
		report.AvgCodewordBits = 8 * float64(cw.n) / float64(uncompressed)
		report.CompressionRatio = float64(uncompressed) / float64(cw.n)
	}
	return report, nil
}
