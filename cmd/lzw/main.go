// Command lzw compresses or decompresses a file with the dictionary
// coder, framing its codeword stream through a chosen universal
// integer code.
//
// Usage: lzw <code|decode> <input> <output> [gamma|delta|omega|fib]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goclassic/compress/lzw"
	"github.com/goclassic/compress/lzw/intcode"
)

var errArgument = errors.New("lzw: invalid arguments")

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("lzw failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("%w: usage: lzw <code|decode> <input> <output> [gamma|delta|omega|fib]", errArgument)
	}

	job, inputPath, outputPath := args[0], args[1], args[2]
	codecName := "omega"
	if len(args) == 4 {
		codecName = args[3]
	}

	if inputPath == outputPath {
		return fmt.Errorf("%w: input and output paths must differ", errArgument)
	}

	codec := intcode.ByName(codecName)
	if codec == nil {
		return fmt.Errorf("%w: %q", lzw.ErrUnknownCodec, codecName)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("lzw: opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("lzw: creating output: %w", err)
	}
	defer out.Close()

	switch job {
	case "code":
		report, err := lzw.Encode(out, in, lzw.DictSlots, lzw.Slow, codec)
		if err != nil {
			return err
		}
		log.Info().
			Uint64("compressed_bytes", report.CompressedBytes).
			Uint64("uncompressed_bytes", report.UncompressedBytes).
			Float64("entropy_uncompressed", report.EntropyUncompressed).
			Float64("entropy_compressed", report.EntropyCompressed).
			Float64("avg_codeword_bits", report.AvgCodewordBits).
			Float64("compression_ratio", report.CompressionRatio).
			Msg("encoded")
		return nil
	case "decode":
		return lzw.Decode(out, in, lzw.DictSlots, lzw.Slow, codec)
	default:
		return fmt.Errorf("%w: job must be \"code\" or \"decode\", got %q", errArgument, job)
	}
}
