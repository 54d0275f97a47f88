package lbg

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Histogram maps each unique color present in an image to its pixel
// count.
type Histogram map[Color]uint64

// Options configures a Quantize run.
type Options struct {
	// Epsilon is the inner-loop convergence threshold: refinement stops
	// once the relative change in average distortion drops to or below
	// this value. Zero selects the reference default of 0.1.
	Epsilon float64
	// Rand drives the codebook-split perturbation vectors. Required;
	// callers that don't need reproducibility should still seed one
	// explicitly, e.g. with SeedFromEntropy.
	Rand *Rand
	// OnResize, if set, is called every time the codebook grows
	// (including the initial single-entry seed), with its new size.
	OnResize func(size int)
	// OnTick, if set, is called once per inner-loop iteration once the
	// codebook has grown past 8000 entries, mirroring the reference
	// implementation's progress dots.
	OnTick func()
}

func (o Options) epsilon() float64 {
	if o.Epsilon <= 0 {
		return 0.1
	}
	return o.Epsilon
}

// Result is the outcome of a Quantize run: the codebook and the final
// partition of colors each entry is responsible for.
type Result struct {
	Codebook   map[uuid.UUID]Color
	Partitions map[uuid.UUID][]Color
}

// ColorToID inverts Partitions into a color -> codebook-id lookup,
// used to remap an image's pixels to their assigned centroid.
func (r *Result) ColorToID() map[Color]uuid.UUID {
	m := make(map[Color]uuid.UUID, len(r.Partitions))
	for id, colors := range r.Partitions {
		for _, c := range colors {
			m[c] = id
		}
	}
	return m
}

// Quantize builds a codebook of the given target size from hist using
// the Linde-Buzo-Gray algorithm: seed a single centroid at the
// count-weighted mean color, then repeatedly split every entry,
// reassign colors to their nearest centroid, recompute centroids, and
// recover centroids that received no colors from high-utility donors.
//
// target should be a power of two (the CLI's 2^k convention), which the
// doubling schedule below reaches exactly; for any other target it
// overshoots to the next power of two.
func Quantize(hist Histogram, target int, opts Options) (*Result, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: target codebook size must be positive, got %d", ErrArgument, target)
	}
	if len(hist) == 0 {
		return nil, fmt.Errorf("%w: empty histogram", ErrArgument)
	}
	if opts.Rand == nil {
		return nil, fmt.Errorf("%w: Rand must be set", ErrArgument)
	}

	var redSum, greenSum, blueSum, count uint64
	for c, n := range hist {
		redSum += uint64(c.Red) * n
		greenSum += uint64(c.Green) * n
		blueSum += uint64(c.Blue) * n
		count += n
	}
	avg := Color{
		Red:   byte(redSum / count),
		Green: byte(greenSum / count),
		Blue:  byte(blueSum / count),
	}

	codebook := map[uuid.UUID]Color{uuid.New(): avg}
	partitions := map[uuid.UUID][]Color{}

	if opts.OnResize != nil {
		opts.OnResize(len(codebook))
	}
	innerLoop(hist, codebook, partitions, opts)

	splitVector := [3]int{5, 5, 5}
	for len(codebook) < target {
		additions := make(map[uuid.UUID]Color, len(codebook))
		for id, c := range codebook {
			origin := c
			var partner Color
			splitPoint(&origin, &partner, splitVector, opts.Rand)
			codebook[id] = origin
			additions[uuid.New()] = partner
		}
		for id, c := range additions {
			codebook[id] = c
		}

		if opts.OnResize != nil {
			opts.OnResize(len(codebook))
		}
		innerLoop(hist, codebook, partitions, opts)
	}

	return &Result{Codebook: codebook, Partitions: partitions}, nil
}

// accum tracks one centroid's count-weighted color sums and
// accumulated distortion across one assignment pass; it is the
// mutable scratch state the PositionAVG entries of the reference
// implementation occupy.
type accum struct {
	redSum, greenSum, blueSum uint64
	count                     uint64
	distortion                uint64
}

func (a *accum) add(c Color, n uint64, dist uint64) {
	a.redSum += uint64(c.Red) * n
	a.greenSum += uint64(c.Green) * n
	a.blueSum += uint64(c.Blue) * n
	a.count += n
	a.distortion += dist * n
}

func (a *accum) centroid() Color {
	return Color{
		Red:   byte(a.redSum / a.count),
		Green: byte(a.greenSum / a.count),
		Blue:  byte(a.blueSum / a.count),
	}
}

// innerLoop refines codebook and partitions in place until the
// relative change in average distortion falls to or below epsilon,
// brute-forcing nearest-centroid search for small codebooks and
// falling back to the sector index once the codebook grows past 4096
// entries.
func innerLoop(hist Histogram, codebook map[uuid.UUID]Color, partitions map[uuid.UUID][]Color, opts Options) {
	eps := opts.epsilon()
	emptyVector := [3]int{1, 1, 1}

	mode := sectorMode(len(codebook))
	sectors := newSectorIndex(mode)
	for id, c := range codebook {
		sectors.insert(c, id)
	}

	avgDistortion := math.MaxFloat64
	avgDistortionPrev := 0.0

	// distortion and colorsCount live at function scope and accumulate
	// across every inner-loop iteration without reset, matching
	// original_source/LBG/main.cpp's persistent distortion/colors_count
	// accumulators: avgDistortion is a running average over every
	// iteration executed so far, not just the latest one.
	var distortion, colorsCount uint64

	// The loop condition and its NaN corner case (a perfectly-matching
	// codebook drives avgDistortion to exactly 0, making the next
	// relative-change test 0/0) are both inherited unmodified from the
	// reference implementation: IEEE 754 comparisons against NaN are
	// always false, so the loop still terminates.
	for math.Abs((avgDistortionPrev-avgDistortion)/avgDistortion) > eps {
		for k := range partitions {
			delete(partitions, k)
		}
		accums := make(map[uuid.UUID]*accum, len(codebook))
		pq := &utilityQueue{}

		for color, n := range hist {
			var bestID uuid.UUID
			var bestDist uint64

			if len(codebook) <= 4096 {
				bestDist = math.MaxUint64
				for id, pos := range codebook {
					d := distance(color, pos)
					if d < bestDist {
						bestDist = d
						bestID = id
					}
				}
			} else {
				id, _ := sectors.findNearest(color)
				bestID = id
				bestDist = distance(color, codebook[id])
			}

			partitions[bestID] = append(partitions[bestID], color)
			distortion += bestDist * n
			colorsCount += n

			a, ok := accums[bestID]
			if !ok {
				a = &accum{}
				accums[bestID] = a
			}
			a.add(color, n, bestDist)
		}

		avgDistortionPrev = avgDistortion
		avgDistortion = float64(distortion) / float64(colorsCount)

		sectors.clear(sectorMode(len(codebook)))

		for id, a := range accums {
			if a.count > 0 {
				c := a.centroid()
				codebook[id] = c
				sectors.insert(c, id)
			}
			utility := (float64(a.distortion) / float64(a.count)) / avgDistortion
			if utility != 0 {
				heap.Push(pq, utilEntry{utility: utility, id: id})
			}
		}

		for id, pos := range codebook {
			if _, ok := accums[id]; ok {
				continue
			}

			top, ok := pq.peek()
			if !ok || top.utility < 0.3 {
				sectors.insert(pos, id)
				continue
			}
			donor := heap.Pop(pq).(utilEntry)
			donorColor := codebook[donor.id]
			sectors.erase(donorColor, donor.id)
			distortion -= accums[donor.id].distortion

			newDonor, newEmpty := donorColor, pos
			splitPoint(&newDonor, &newEmpty, emptyVector, opts.Rand)
			codebook[donor.id] = newDonor
			codebook[id] = newEmpty
			sectors.insert(newDonor, donor.id)
			sectors.insert(newEmpty, id)

			emptyDist, emptyCount, donorDist, donorCount := fastRecalculation(id, donor.id, codebook, partitions, hist)
			distortion += emptyDist + donorDist
			avgDistortion = float64(distortion) / float64(colorsCount)

			if emptyCount != 0 && donorCount != 0 {
				// Either child may be popped again as a donor later in this
				// pass, so record its recalculated distortion.
				accums[donor.id] = &accum{count: donorCount, distortion: donorDist}
				accums[id] = &accum{count: emptyCount, distortion: emptyDist}
				heap.Push(pq, utilEntry{utility: (float64(donorDist) / float64(donorCount)) / avgDistortion, id: donor.id})
				heap.Push(pq, utilEntry{utility: (float64(emptyDist) / float64(emptyCount)) / avgDistortion, id: id})
			}
		}

		if len(codebook) > 8000 && opts.OnTick != nil {
			opts.OnTick()
		}
	}
}

// fastRecalculation re-partitions only the colors that previously
// belonged to id1 or id2 between the two, by nearest distance, and
// recomputes each side's centroid and distortion. Every other
// partition is left untouched — a deliberate cost/quality trade-off
// the reference implementation calls "fast recalculation".
func fastRecalculation(id1, id2 uuid.UUID, codebook map[uuid.UUID]Color, partitions map[uuid.UUID][]Color, hist Histogram) (d1, c1, d2, c2 uint64) {
	prior1, prior2 := partitions[id1], partitions[id2]
	delete(partitions, id1)
	delete(partitions, id2)

	var a1, a2 accum
	reassign := func(colors []Color) {
		for _, color := range colors {
			n := hist[color]
			dist1 := distance(color, codebook[id1])
			dist2 := distance(color, codebook[id2])
			if dist1 < dist2 {
				partitions[id1] = append(partitions[id1], color)
				a1.add(color, n, dist1)
			} else {
				partitions[id2] = append(partitions[id2], color)
				a2.add(color, n, dist2)
			}
		}
	}
	reassign(prior1)
	reassign(prior2)

	if a1.count > 0 {
		codebook[id1] = a1.centroid()
	}
	if a2.count > 0 {
		codebook[id2] = a2.centroid()
	}

	return a1.distortion, a1.count, a2.distortion, a2.count
}

// splitPoint perturbs origin and partner in opposite directions along
// a vector whose per-component sign is randomized, clamping both
// results to [0,255].
func splitPoint(origin, partner *Color, vector [3]int, rng *Rand) {
	dr, dg, db := vector[0], vector[1], vector[2]
	if rng.Float64(0, 1) > 0.5 {
		dr = -dr
	}
	if rng.Float64(0, 1) > 0.5 {
		dg = -dg
	}
	if rng.Float64(0, 1) > 0.5 {
		db = -db
	}

	partner.Red = clampByte(int(origin.Red) + dr)
	partner.Green = clampByte(int(origin.Green) + dg)
	partner.Blue = clampByte(int(origin.Blue) + db)

	origin.Red = clampByte(int(origin.Red) - dr)
	origin.Green = clampByte(int(origin.Green) - dg)
	origin.Blue = clampByte(int(origin.Blue) - db)
}

func clampByte(v int) byte {
	return byte(clamp(v, 0, 255))
}

// utilEntry is one priority-queue entry: a centroid's utility index
// (local average distortion over global average distortion) and its
// codebook id.
type utilEntry struct {
	utility float64
	id      uuid.UUID
}

// utilityQueue is a max-heap over utilEntry keyed by utility, used to
// pick donor centroids for empty-cell splitting.
type utilityQueue []utilEntry

func (q utilityQueue) Len() int           { return len(q) }
func (q utilityQueue) Less(i, j int) bool { return q[i].utility > q[j].utility }
func (q utilityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *utilityQueue) Push(x any) { *q = append(*q, x.(utilEntry)) }

func (q *utilityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (q utilityQueue) peek() (utilEntry, bool) {
	if len(q) == 0 {
		return utilEntry{}, false
	}
	return q[0], true
}
