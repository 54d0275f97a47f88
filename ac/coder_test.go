package ac

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := NewEncoder(&buf, NewFull())
	_, err := enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Finish())

	dec := NewDecoder(&buf, NewFull())
	got, err := dec.Decode()
	require.NoError(t, err)
	return got
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		[]byte("hello, world"),
		[]byte(strings.Repeat("ab", 1000)),
		bytes.Repeat([]byte{0x00, 0xff}, 500),
	}
	for _, data := range cases {
		require.Equal(t, data, roundTrip(t, data))
	}
}

func TestEncodeDecodeRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		n := rng.Intn(4000)
		data := make([]byte, n)
		rng.Read(data)
		require.Equal(t, data, roundTrip(t, data))
	}
}

func TestEncodeDecodeSkewedAlphabet(t *testing.T) {
	var data []byte
	for i := 0; i < 10000; i++ {
		switch {
		case i%10 == 0:
			data = append(data, 'b')
		case i%37 == 0:
			data = append(data, 'c')
		default:
			data = append(data, 'a')
		}
	}
	require.Equal(t, data, roundTrip(t, data))
}

func TestSelfCheck(t *testing.T) {
	require.NoError(t, SelfCheck(100))
}
