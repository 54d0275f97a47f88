// Command lbg quantises a 24-bit TGA image's color palette down to 2^k
// entries with the Linde-Buzo-Gray algorithm, replacing every pixel
// with its nearest codebook entry.
//
// Usage: lbg <input.tga> <output.tga> <k> [epsilon]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goclassic/compress/lbg"
)

var errArgument = errors.New("lbg: invalid arguments")

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("lbg failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("%w: usage: lbg <input.tga> <output.tga> <k> [epsilon]", errArgument)
	}

	inputPath, outputPath := args[0], args[1]
	if inputPath == outputPath {
		return fmt.Errorf("%w: input and output paths must differ", errArgument)
	}

	k, err := strconv.Atoi(args[2])
	if err != nil || k < 0 || k > 24 {
		return fmt.Errorf("%w: k must be an integer in [0,24], got %q", errArgument, args[2])
	}
	target := 1 << uint(k)

	epsilon := 0.1
	if len(args) == 4 {
		epsilon, err = strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("%w: invalid epsilon %q", errArgument, args[3])
		}
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("lbg: opening input: %w", err)
	}
	defer in.Close()

	hist, err := lbg.LoadHistogram(in)
	if err != nil {
		return err
	}
	log.Info().Int("unique_colors", len(hist)).Msg("loaded image")

	rng, err := lbg.SeedFromEntropy()
	if err != nil {
		return fmt.Errorf("lbg: seeding PRNG: %w", err)
	}

	result, err := lbg.Quantize(hist, target, lbg.Options{
		Epsilon: epsilon,
		Rand:    rng,
		OnResize: func(size int) {
			log.Info().Int("codebook_size", size).Msg("resizing codebook")
		},
		OnTick: func() {
			fmt.Fprint(os.Stderr, ".")
		},
	})
	if err != nil {
		return err
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("lbg: rewinding input: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("lbg: creating output: %w", err)
	}
	defer out.Close()

	report, err := lbg.Transform(out, in, result.ColorToID(), result.Codebook)
	if err != nil {
		return err
	}

	log.Info().
		Int("codebook_size", len(result.Codebook)).
		Float64("mse", report.MSE).
		Float64("snr", report.SNR).
		Float64("snr_db", report.SNRdB).
		Msg("quantized")
	return nil
}
