package lbg

import (
	"math"

	"github.com/google/uuid"
)

// sideForMode maps a resolution mode (1-4) to its cube side length.
// Mode 1 is the coarsest grid (32-unit cubes), mode 4 the finest
// (4-unit cubes).
func sideForMode(mode int) int {
	switch mode {
	case 2:
		return 16
	case 3:
		return 8
	case 4:
		return 4
	default:
		return 32
	}
}

// sectorMode picks the grid resolution for a codebook of the given
// size: larger codebooks get finer grids, keeping the average number
// of entries per cell roughly constant as nearest-neighbor queries
// get more frequent.
func sectorMode(codebookSize int) int {
	switch {
	case codebookSize >= 1<<22:
		return 4
	case codebookSize >= 1<<18:
		return 3
	case codebookSize >= 1<<16:
		return 2
	default:
		return 1
	}
}

type cellEntry struct {
	color Color
	id    uuid.UUID
}

// sectorIndex is a single adaptive spatial index over the 256^3 RGB
// cube, sized to one of four cube-side resolutions (32/16/8/4). Only
// one resolution is ever populated at a time; mode changes clear and
// rebuild it. This replaces the four near-duplicate grids of the
// reference index with one grid parameterised by side length.
type sectorIndex struct {
	side      int
	numPerRow int
	cells     map[int64][]cellEntry
}

func newSectorIndex(mode int) *sectorIndex {
	side := sideForMode(mode)
	return &sectorIndex{
		side:      side,
		numPerRow: 256 / side,
		cells:     make(map[int64][]cellEntry),
	}
}

func (s *sectorIndex) cellID(r, g, b int) int64 {
	n := int64(s.numPerRow)
	return int64(r/s.side) + int64(g/s.side)*n + int64(b/s.side)*n*n
}

func (s *sectorIndex) insert(c Color, id uuid.UUID) {
	cell := s.cellID(int(c.Red), int(c.Green), int(c.Blue))
	s.cells[cell] = append(s.cells[cell], cellEntry{color: c, id: id})
}

func (s *sectorIndex) erase(c Color, id uuid.UUID) {
	cell := s.cellID(int(c.Red), int(c.Green), int(c.Blue))
	entries := s.cells[cell]
	for i, e := range entries {
		if e.color == c && e.id == id {
			s.cells[cell] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// clear wipes the index and rebuilds it at the given mode.
func (s *sectorIndex) clear(mode int) {
	s.side = sideForMode(mode)
	s.numPerRow = 256 / s.side
	s.cells = make(map[int64][]cellEntry)
}

// shellCells returns the set of cells that lie on the axis-aligned
// cubic shell of half-extent depth*side centred on c: the six face
// slabs of the [redMin,redMax]x[greenMin,greenMax]x[blueMin,blueMax]
// box, deduplicated since adjacent faces share edge cells.
func (s *sectorIndex) shellCells(c Color, depth int) []int64 {
	ext := depth * s.side
	redMin, redMax := clamp(int(c.Red)-ext, 0, 255), clamp(int(c.Red)+ext, 0, 255)
	greenMin, greenMax := clamp(int(c.Green)-ext, 0, 255), clamp(int(c.Green)+ext, 0, 255)
	blueMin, blueMax := clamp(int(c.Blue)-ext, 0, 255), clamp(int(c.Blue)+ext, 0, 255)

	visited := make(map[int64]struct{})
	face := func(outerMin, outerMax, innerMin, innerMax int, build func(outer, inner int) (r, g, b int)) {
		for o := outerMin; o <= outerMax; o += s.side {
			for i := innerMin; i <= innerMax; i += s.side {
				r, g, b := build(o, i)
				visited[s.cellID(r, g, b)] = struct{}{}
			}
		}
	}

	face(greenMin, greenMax, blueMin, blueMax, func(g, b int) (int, int, int) { return redMax, g, b })
	face(greenMin, greenMax, blueMin, blueMax, func(g, b int) (int, int, int) { return redMin, g, b })
	face(greenMin, greenMax, redMin, redMax, func(g, r int) (int, int, int) { return r, g, blueMax })
	face(greenMin, greenMax, redMin, redMax, func(g, r int) (int, int, int) { return r, g, blueMin })
	face(blueMin, blueMax, redMin, redMax, func(b, r int) (int, int, int) { return r, greenMax, b })
	face(blueMin, blueMax, redMin, redMax, func(b, r int) (int, int, int) { return r, greenMin, b })

	cells := make([]int64, 0, len(visited))
	for cell := range visited {
		cells = append(cells, cell)
	}
	return cells
}

// findNearest returns the uuid of the codebook entry nearest to c by
// squared Euclidean distance, searching cells in expanding shells
// until a bound derived from the best distance found so far rules out
// any closer match in a farther shell.
func (s *sectorIndex) findNearest(c Color) (uuid.UUID, bool) {
	var bestID uuid.UUID
	bestDist := uint64(math.MaxUint64)
	found := false

	over, overEnd := 0, 1
	started := false

	for depth := 0; over != overEnd && depth < 255; depth++ {
		if started {
			over++
		}

		for _, cell := range s.shellCells(c, depth) {
			for _, e := range s.cells[cell] {
				d := distance(c, e.color)
				if d < bestDist {
					bestDist = d
					bestID = e.id
					found = true

					if !started {
						if s.side == 32 {
							overEnd = int(math.Sqrt(float64(d))) + 1 - depth*(s.side-1)
						} else {
							overEnd = int(d) - depth*(s.side-1)
						}
						started = true
					}
				}
			}
		}
	}

	return bestID, found
}
