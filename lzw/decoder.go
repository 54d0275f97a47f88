package lzw

import (
	"bufio"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/goclassic/compress/lzw/intcode"
)

// Decode reconstructs the original byte stream from a stream produced
// by Encode with the same slot count, speed variant, and integer codec.
func Decode(w io.Writer, r io.Reader, slots uint64, speed Speed, codec intcode.Codec) error {
	dict := NewDict(slots, speed)
	br := bitio.NewReader(r)
	bw := bufio.NewWriter(w)

	firstID, ok, err := codec.Decode(br)
	if err != nil {
		return fmt.Errorf("lzw: reading codeword: %w", err)
	}
	if !ok {
		return bw.Flush()
	}

	lastRealID := firstID
	lastIndex := dict.at(lastRealID).hashIndex
	tmp := lastRealID
	if err := bw.WriteByte(dict.at(lastRealID).character); err != nil {
		return fmt.Errorf("lzw: writing output: %w", err)
	}

	var chain []byte
	for {
		nextRealID, ok, err := codec.Decode(br)
		if err != nil {
			return fmt.Errorf("lzw: reading codeword: %w", err)
		}
		if !ok {
			break
		}

		if dict.at(nextRealID).hashIndex == 0 {
			// KωK: the code names an entry not yet defined on this side;
			// it must be the previous string extended by its own first
			// character. tmp still names the root of the previous
			// string from the prior iteration's walk, below.
			newIndex := dict.hash(lastIndex, uint64(dict.at(tmp).character))
			dict.insert(newIndex, lastRealID, dict.at(tmp).character)
		}

		tmp = nextRealID
		chain = chain[:0]
		for {
			chain = append(chain, dict.at(tmp).character)
			if dict.at(tmp).parent == 0 {
				break
			}
			tmp = dict.at(tmp).parent
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if err := bw.WriteByte(chain[i]); err != nil {
				return fmt.Errorf("lzw: writing output: %w", err)
			}
		}

		nextIndex := dict.hash(lastIndex, uint64(dict.at(tmp).character))
		if dict.Size() < int(dict.MaxSize()) {
			dict.insert(nextIndex, lastRealID, dict.at(tmp).character)
		}
		if dict.Size() >= int(dict.MaxSize()) {
			dict.Reset()
		}

		lastRealID = nextRealID
		lastIndex = dict.at(lastRealID).hashIndex
	}

	return bw.Flush()
}
