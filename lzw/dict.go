// Package lzw implements a dictionary compressor whose dictionary is an
// open-addressed hash table keyed by (parent entry, next byte), with
// the index stream framed through a pluggable universal integer code.
package lzw

// Speed selects the dictionary's hash function and capacity policy:
// Slow gives denser compression at the cost of hash quality on large
// inputs; Fast trades some compression for better distribution.
type Speed int

const (
	Slow Speed = iota
	Fast
)

// entry is one slot of the dictionary. A zero hashIndex marks the slot
// empty; slot 0 of the backing array is a permanent sentinel and is
// never itself occupied.
type entry struct {
	hashIndex uint64
	parent    uint64
	character byte
}

// Dict is the open-addressed dictionary: entries are keyed by
// (hashIndex, parent) and probed linearly from toIndex(hashIndex).
// Real IDs are simply slot indices into entries, always in [1, m-1].
type Dict struct {
	entries   []entry
	m         uint64
	size      int
	speed     Speed
	singleton [256]uint64
}

// NewDict builds a dictionary with m total slots (slot 0 reserved as
// the empty sentinel), seeded with the 256 single-byte strings.
func NewDict(m uint64, speed Speed) *Dict {
	d := &Dict{m: m, speed: speed}
	d.Reset()
	return d
}

// Size reports the number of occupied slots.
func (d *Dict) Size() int { return d.size }

// MaxSize is the capacity at which the dictionary resets: m-1 for the
// slow variant, floor(0.8*m) for the fast variant.
func (d *Dict) MaxSize() uint64 {
	if d.speed == Slow {
		return d.m - 1
	}
	return uint64(float64(d.m) * 0.8)
}

// Reset clears the dictionary and reseeds the 256 singleton entries.
// This is the sole eviction policy: once Size reaches MaxSize, the
// caller resets rather than evicting individual entries.
func (d *Dict) Reset() {
	d.entries = make([]entry, d.m)
	d.size = 0
	for c := 0; c < 256; c++ {
		idx := d.hash(0, uint64(c))
		realID, _ := d.insert(idx, 0, byte(c))
		d.singleton[c] = realID
	}
}

// hash computes the composite key for (parentHashIndex, nextByte)
// under the dictionary's configured speed variant.
func (d *Dict) hash(a, b uint64) uint64 {
	if d.speed == Slow {
		return a + b + 1 // wraps on overflow, as uint64 addition does
	}
	return a ^ (b + 0x9e3779b9 + (a << 6) + (a >> 2))
}

// toIndex maps a raw hash value to a probe-origin slot in [1, m-1];
// slot 0 is never a valid probe origin since it is the sentinel.
func (d *Dict) toIndex(v uint64) uint64 {
	x := v % d.m
	if x == 0 {
		return d.m - 1
	}
	return x
}

// at returns the entry at realID.
func (d *Dict) at(realID uint64) entry { return d.entries[realID] }

// find looks up the entry matching (hashIndex, parent), returning its
// real ID (slot index) if present.
func (d *Dict) find(hashIndex, parent uint64) (realID uint64, ok bool) {
	idx := d.toIndex(hashIndex)
	for {
		e := d.entries[idx]
		if e.hashIndex == hashIndex && e.parent == parent {
			return idx, true
		}
		if e.hashIndex == 0 {
			return 0, false
		}
		idx++
		if idx >= d.m {
			idx = 1
		}
	}
}

// insert finds or creates the entry for (hashIndex, parent, char),
// returning its real ID and whether it was newly created.
func (d *Dict) insert(hashIndex, parent uint64, char byte) (realID uint64, created bool) {
	idx := d.toIndex(hashIndex)
	for {
		e := &d.entries[idx]
		if e.hashIndex == hashIndex && e.parent == parent {
			return idx, false
		}
		if e.hashIndex == 0 {
			e.hashIndex = hashIndex
			e.parent = parent
			e.character = char
			d.size++
			return idx, true
		}
		idx++
		if idx >= d.m {
			idx = 1
		}
	}
}
