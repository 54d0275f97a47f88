package lbg

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
)

// tgaInfo locates the pixel data region of an uncompressed 24-bit TGA
// image within its full byte buffer; everything outside that region
// (the 18-byte header, the image-ID field, any color map, and any
// trailing footer/extension area) is copied to the output verbatim.
type tgaInfo struct {
	width, height int
	dataOffset    int
	pixelBytes    int
}

func parseTGA(data []byte) (tgaInfo, error) {
	if len(data) < 18 {
		return tgaInfo{}, fmt.Errorf("%w: header shorter than 18 bytes", ErrFormat)
	}

	idLen := int(data[0])
	colorMapLen := int(binary.LittleEndian.Uint16(data[5:7]))
	colorMapEntrySize := int(data[7])
	width := int(binary.LittleEndian.Uint16(data[12:14]))
	height := int(binary.LittleEndian.Uint16(data[14:16]))

	dataOffset := 18 + idLen + colorMapLen*(colorMapEntrySize/8)
	pixelBytes := 3 * width * height
	if dataOffset < 0 || dataOffset+pixelBytes > len(data) {
		return tgaInfo{}, fmt.Errorf("%w: pixel data region (offset %d, %d bytes) exceeds file size %d", ErrFormat, dataOffset, pixelBytes, len(data))
	}

	return tgaInfo{width: width, height: height, dataOffset: dataOffset, pixelBytes: pixelBytes}, nil
}

// LoadHistogram reads an uncompressed 24-bit TGA image and returns a
// histogram of its unique colors. Pixel data is stored BGR per the TGA
// convention; the returned Color keys are in RGB order.
func LoadHistogram(r io.Reader) (Histogram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lbg: reading TGA: %w", err)
	}
	info, err := parseTGA(data)
	if err != nil {
		return nil, err
	}

	hist := make(Histogram)
	pix := data[info.dataOffset : info.dataOffset+info.pixelBytes]
	for i := 0; i+2 < len(pix); i += 3 {
		c := Color{Red: pix[i+2], Green: pix[i+1], Blue: pix[i]}
		hist[c]++
	}
	return hist, nil
}

// TransformReport summarizes one Transform run: RMS per-channel error
// (MSE, despite the name — matching the reference CLI's own naming),
// signal-to-noise ratio, and its decibel form. Both are computed from
// the sum of squared original-channel values, not of the distortion,
// divided by the pixel*channel count, then divided by RMS and
// log10'd, exactly as the reference implementation reports them.
type TransformReport struct {
	MSE   float64
	SNR   float64
	SNRdB float64
}

// Transform reads the TGA image in r, replaces every pixel with its
// nearest codebook entry (looked up through colorToID), and writes the
// result to w with the same header, color map, and any trailing
// footer bytes copied verbatim.
func Transform(w io.Writer, r io.Reader, colorToID map[Color]uuid.UUID, codebook map[uuid.UUID]Color) (TransformReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return TransformReport{}, fmt.Errorf("lbg: reading TGA: %w", err)
	}
	info, err := parseTGA(data)
	if err != nil {
		return TransformReport{}, err
	}

	out := make([]byte, len(data))
	copy(out, data)

	pix := data[info.dataOffset : info.dataOffset+info.pixelBytes]
	outPix := out[info.dataOffset : info.dataOffset+info.pixelBytes]

	var sumSquaredSignal, sumSquaredError, n uint64
	for i := 0; i+2 < len(pix); i += 3 {
		orig := Color{Red: pix[i+2], Green: pix[i+1], Blue: pix[i]}
		id, ok := colorToID[orig]
		if !ok {
			return TransformReport{}, fmt.Errorf("%w: pixel color %v has no codebook assignment", ErrArgument, orig)
		}
		repl := codebook[id]

		sumSquaredSignal += uint64(orig.Red)*uint64(orig.Red) + uint64(orig.Green)*uint64(orig.Green) + uint64(orig.Blue)*uint64(orig.Blue)
		sumSquaredError += distance(orig, repl)
		n += 3

		outPix[i], outPix[i+1], outPix[i+2] = repl.Blue, repl.Green, repl.Red
	}

	if _, err := w.Write(out); err != nil {
		return TransformReport{}, fmt.Errorf("lbg: writing TGA: %w", err)
	}

	if n == 0 {
		return TransformReport{}, nil
	}

	rms := math.Sqrt(float64(sumSquaredError) / float64(n))
	report := TransformReport{MSE: rms}
	report.SNR = (float64(sumSquaredSignal) / float64(n)) / rms
	report.SNRdB = 10 * math.Log10(report.SNR)
	return report, nil
}
