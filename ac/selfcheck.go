package ac

import (
	"bytes"
	"fmt"
	"strings"
)

// loremIpsum is the repeated pattern the original demo encodes: a long
// run of prose-like text whose letter frequencies are skewed enough to
// exercise the adaptive tree's reordering under realistic conditions.
const loremIpsum = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. "

// SelfCheck encodes the demo pattern repeated n times, decodes the
// result, and reports ErrIntegrity if the round trip does not reproduce
// the input bit-for-bit.
func SelfCheck(n int) error {
	input := []byte(strings.Repeat(loremIpsum, n))

	var buf bytes.Buffer
	enc := NewEncoder(&buf, NewFull())
	if _, err := enc.Write(input); err != nil {
		return fmt.Errorf("ac: self-check encode: %w", err)
	}
	if err := enc.Finish(); err != nil {
		return fmt.Errorf("ac: self-check encode: %w", err)
	}

	dec := NewDecoder(&buf, NewFull())
	output, err := dec.Decode()
	if err != nil {
		return fmt.Errorf("ac: self-check decode: %w", err)
	}

	if !bytes.Equal(input, output) {
		return fmt.Errorf("%w: %d bytes in, %d bytes out", ErrIntegrity, len(input), len(output))
	}
	return nil
}
