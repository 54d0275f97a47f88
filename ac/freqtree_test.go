package ac

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func (t *FreqTree) checkInvariants(tb testing.TB) {
	tb.Helper()
	for i := range t.nodes {
		if l := 2*i + 1; l < len(t.nodes) {
			require.GreaterOrEqual(tb, t.nodes[i].freq, t.nodes[l].freq, "node %d < left child %d", i, l)
		}
		if r := 2*i + 2; r < len(t.nodes) {
			require.GreaterOrEqual(tb, t.nodes[i].freq, t.nodes[r].freq, "node %d < right child %d", i, r)
		}

		var wantLeftSum uint64
		var walk func(p int)
		walk = func(p int) {
			if p >= len(t.nodes) {
				return
			}
			wantLeftSum += t.nodes[p].freq
			walk(2*p + 1)
			walk(2*p + 2)
		}
		walk(2*i + 1)
		require.Equal(tb, wantLeftSum, t.nodes[i].leftSum, "left_sum mismatch at node %d", i)
	}

	var sum uint64
	for _, n := range t.nodes {
		require.Equal(tb, n.freq, t.bySymbol[n.symbol], "freq_by_symbol mismatch for symbol %d", n.symbol)
		sum += n.freq
	}
	require.Equal(tb, sum+1, t.total, "total mismatch")
}

func TestFreqTreeNewFull(t *testing.T) {
	tree := NewFull()
	require.Equal(t, 256, tree.Len())
	require.Equal(t, uint64(257), tree.Total())
	tree.checkInvariants(t)
}

func TestFreqTreeRangesPartitionTotal(t *testing.T) {
	tree := NewFull()

	// Cumulative ranges are laid out in pre-order (node, then its left
	// subtree, then its right subtree), so visit the heap in that order.
	var order []int
	var walk func(p int)
	walk = func(p int) {
		if p >= tree.Len() {
			return
		}
		order = append(order, p)
		walk(2*p + 1)
		walk(2*p + 2)
	}
	walk(0)

	var covered uint64
	for _, i := range order {
		lo, hi := tree.Range(tree.nodes[i].symbol)
		require.Equal(t, covered, lo)
		require.Greater(t, hi, lo)
		covered = hi
	}
	eofLo, eofHi := tree.EOFRange()
	require.Equal(t, covered, eofLo)
	require.Equal(t, tree.Total(), eofHi)
}

func TestFreqTreeIncPreservesInvariants(t *testing.T) {
	tree := NewFull()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		sym := byte(rng.Intn(256))
		tree.Inc(sym)
		tree.checkInvariants(t)
	}
}

func TestFreqTreeLookupInvertsRange(t *testing.T) {
	tree, err := New([]byte("abcdefgh"))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		sym := "abcdefgh"[rng.Intn(8)]
		tree.RangeAndInc(sym)
		tree.checkInvariants(t)

		lo, hi := tree.Range(sym)
		for v := lo; v < hi; v++ {
			gotSym, gotLo, gotHi := tree.Lookup(v)
			require.Equal(t, sym, gotSym)
			require.Equal(t, lo, gotLo)
			require.Equal(t, hi, gotHi)
		}
	}
}

func TestFreqTreeLookupAndIncMatchesRangeAndInc(t *testing.T) {
	alphabet := []byte("xyz")
	tree1, err := New(alphabet)
	require.NoError(t, err)
	tree2, err := New(alphabet)
	require.NoError(t, err)

	seq := []byte("xyzxyzxxxyyyzzzxyzxyz")
	for _, sym := range seq {
		lo1, hi1 := tree1.RangeAndInc(sym)

		mid := (lo1 + hi1) / 2
		gotSym, lo2, hi2 := tree2.LookupAndInc(mid)

		require.Equal(t, sym, gotSym)
		require.Equal(t, lo1, lo2)
		require.Equal(t, hi1, hi2)
	}
}

func TestNewRejectsBadAlphabets(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New([]byte{1, 2, 2})
	require.Error(t, err)

	big := make([]byte, 257)
	_, err = New(big)
	require.Error(t, err)
}
