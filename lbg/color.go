// Package lbg implements a Linde-Buzo-Gray vector quantiser for 24-bit
// RGB images: it builds a codebook of representative colors by
// iterative splitting, assignment, and centroid refinement, then
// remaps every pixel of an image to its nearest codebook entry.
package lbg

// Color is a 24-bit RGB triple. It is comparable, so it can be used
// directly as a map key for color histograms.
type Color struct {
	Red, Green, Blue uint8
}

// distance returns the squared Euclidean distance between two colors.
// The result never needs a square root: every comparison in this
// package only cares about relative ordering, and squared distance
// preserves it while staying in exact integer arithmetic.
func distance(a, b Color) uint64 {
	dr := int64(a.Red) - int64(b.Red)
	dg := int64(a.Green) - int64(b.Green)
	db := int64(a.Blue) - int64(b.Blue)
	return uint64(dr*dr + dg*dg + db*db)
}
