package lbg

import "golang.org/x/exp/constraints"

// clamp restricts v to [lo,hi]. It is generic over the sector index's
// int cell coordinates and the quantiser's byte color channels so
// both can share one bounds-check instead of duplicating it per type.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
