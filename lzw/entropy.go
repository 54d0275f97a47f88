package lzw

import "math"

// entropyOf computes the order-0 Shannon entropy, in bits per symbol,
// of a 256-bin byte histogram with size total occurrences.
func entropyOf(counts []uint64, total uint64) float64 {
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

func sumCounts(counts []uint64) uint64 {
	var s uint64
	for _, c := range counts {
		s += c
	}
	return s
}
