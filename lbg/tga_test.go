package lbg

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// buildTGA assembles a minimal uncompressed 24-bit TGA buffer: an
// 18-byte header (no image ID, no color map), followed by width*height
// BGR triples, followed by trailing bytes that a real implementation
// must preserve verbatim (an extension area, in practice).
func buildTGA(width, height int, pixelsRGB []Color, trailer []byte) []byte {
	var buf bytes.Buffer
	header := make([]byte, 18)
	header[2] = 2 // uncompressed truecolor
	binary.LittleEndian.PutUint16(header[12:14], uint16(width))
	binary.LittleEndian.PutUint16(header[14:16], uint16(height))
	header[16] = 24
	buf.Write(header)

	for _, c := range pixelsRGB {
		buf.WriteByte(c.Blue)
		buf.WriteByte(c.Green)
		buf.WriteByte(c.Red)
	}
	buf.Write(trailer)
	return buf.Bytes()
}

func TestLoadHistogramCountsPixels(t *testing.T) {
	pixels := []Color{
		{Red: 1, Green: 2, Blue: 3},
		{Red: 1, Green: 2, Blue: 3},
		{Red: 10, Green: 20, Blue: 30},
	}
	data := buildTGA(3, 1, pixels, []byte("trailer-bytes"))

	hist, err := LoadHistogram(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint64(2), hist[Color{Red: 1, Green: 2, Blue: 3}])
	require.Equal(t, uint64(1), hist[Color{Red: 10, Green: 20, Blue: 30}])
}

func TestLoadHistogramRejectsTruncatedPixelData(t *testing.T) {
	data := buildTGA(4, 4, []Color{{Red: 1}}, nil) // far fewer pixels than 4x4 claims

	_, err := LoadHistogram(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrFormat)
}

func TestTransformRemapsPixelsAndPreservesTrailer(t *testing.T) {
	pixels := []Color{
		{Red: 1, Green: 2, Blue: 3},
		{Red: 10, Green: 20, Blue: 30},
	}
	trailer := []byte("TRUEVISION-XFILE.")
	data := buildTGA(2, 1, pixels, trailer)

	idA, idB := uuid.New(), uuid.New()
	codebook := map[uuid.UUID]Color{
		idA: {Red: 100, Green: 100, Blue: 100},
		idB: {Red: 200, Green: 200, Blue: 200},
	}
	colorToID := map[Color]uuid.UUID{
		pixels[0]: idA,
		pixels[1]: idB,
	}

	var out bytes.Buffer
	report, err := Transform(&out, bytes.NewReader(data), colorToID, codebook)
	require.NoError(t, err)
	require.Greater(t, report.MSE, 0.0)

	gotBytes := out.Bytes()
	require.Equal(t, data[:18], gotBytes[:18], "header must be copied verbatim")
	require.Equal(t, trailer, gotBytes[len(gotBytes)-len(trailer):], "trailer must be copied verbatim")

	gotHist, err := LoadHistogram(bytes.NewReader(gotBytes))
	require.NoError(t, err)
	require.Contains(t, gotHist, codebook[idA])
	require.Contains(t, gotHist, codebook[idB])
}

func TestTransformZeroDistortionReportsInfiniteSNR(t *testing.T) {
	pixels := []Color{{Red: 5, Green: 5, Blue: 5}, {Red: 5, Green: 5, Blue: 5}}
	data := buildTGA(2, 1, pixels, nil)

	id := uuid.New()
	codebook := map[uuid.UUID]Color{id: {Red: 5, Green: 5, Blue: 5}}
	colorToID := map[Color]uuid.UUID{{Red: 5, Green: 5, Blue: 5}: id}

	var out bytes.Buffer
	report, err := Transform(&out, bytes.NewReader(data), colorToID, codebook)
	require.NoError(t, err)
	require.Equal(t, 0.0, report.MSE)
	require.True(t, math.IsInf(report.SNR, 1))
	require.True(t, math.IsInf(report.SNRdB, 1))
}
