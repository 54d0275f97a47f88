package intcode

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

// bitString encodes n with codec and returns the written bits as a
// string of '0'/'1', without any byte-alignment padding.
func bitString(t *testing.T, codec Codec, n uint64) string {
	t.Helper()
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, codec.Encode(w, n))
	require.NoError(t, w.Close())

	full := ""
	for _, b := range buf.Bytes() {
		full += fmt.Sprintf("%08b", b)
	}
	return full
}

func TestGammaScenarios(t *testing.T) {
	require.Equal(t, "1", bitString(t, Gamma{}, 1)[:1])
	requirePrefix(t, Gamma{}, 5, "00101")
	requirePrefix(t, Gamma{}, 10, "0001010")
}

func TestDeltaScenarios(t *testing.T) {
	requirePrefix(t, Delta{}, 1, "1")
	requirePrefix(t, Delta{}, 5, "01101")
}

func TestOmegaScenarios(t *testing.T) {
	requirePrefix(t, Omega{}, 1, "0")
	requirePrefix(t, Omega{}, 2, "100")
	requirePrefix(t, Omega{}, 8, "1110000")
}

func TestFibonacciScenarios(t *testing.T) {
	requirePrefix(t, Fibonacci{}, 1, "11")
	requirePrefix(t, Fibonacci{}, 7, "01011")
}

// requirePrefix checks that encoding n produces exactly `want` as its
// leading bits (the codecs are prefix-free and self-delimiting, so the
// remainder is padding and irrelevant here).
func requirePrefix(t *testing.T, codec Codec, n uint64, want string) {
	t.Helper()
	got := bitString(t, codec, n)
	require.GreaterOrEqual(t, len(got), len(want))
	require.Equal(t, want, got[:len(want)])
}

var allCodecs = []struct {
	name  string
	codec Codec
}{
	{"gamma", Gamma{}},
	{"delta", Delta{}},
	{"omega", Omega{}},
	{"fib", Fibonacci{}},
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{1, 2, 3, 5, 7, 8, 10, 63, 64, 65, 1000, 1 << 20, 1 << 40, 1<<60 - 1, 1 << 60}
	for _, tc := range allCodecs {
		for _, n := range values {
			var buf bytes.Buffer
			w := bitio.NewWriter(&buf)
			require.NoError(t, tc.codec.Encode(w, n))
			require.NoError(t, w.Close())

			r := bitio.NewReader(&buf)
			got, ok, err := tc.codec.Decode(r)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, n, got, "%s: n=%d", tc.name, n)
		}
	}
}

func TestConcatenationDecodesInOrder(t *testing.T) {
	seq := []uint64{1, 2, 3, 4, 5, 100, 7, 1 << 10, 9}
	for _, tc := range allCodecs {
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		for _, n := range seq {
			require.NoError(t, tc.codec.Encode(w, n))
		}
		require.NoError(t, w.Close())

		r := bitio.NewReader(&buf)
		for _, want := range seq {
			got, ok, err := tc.codec.Decode(r)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, want, got)
		}
	}
}

func TestDecodeOnTruncatedStreamReportsNotOK(t *testing.T) {
	for _, tc := range allCodecs {
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		require.NoError(t, tc.codec.Encode(w, 1<<30))
		require.NoError(t, w.Close())

		truncated := buf.Bytes()[:len(buf.Bytes())/2]
		r := bitio.NewReader(bytes.NewReader(truncated))
		_, ok, err := tc.codec.Decode(r)
		require.NoError(t, err)
		require.False(t, ok)
	}
}
