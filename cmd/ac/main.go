// Command ac runs the adaptive arithmetic coder's self-check demo: it
// encodes a long repeated text pattern, decodes it, and verifies the
// round trip reproduces the input exactly.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goclassic/compress/ac"
)

func main() {
	repeat := flag.Int("repeat", 100000, "number of times to repeat the demo pattern")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	start := time.Now()
	log.Info().Int("repeat", *repeat).Msg("running arithmetic coder self-check")

	if err := ac.SelfCheck(*repeat); err != nil {
		quitF(err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("self-check passed: decoded output matches input")
}

func quitF(err error) {
	log.Error().Err(err).Msg("self-check failed")
	os.Exit(1)
}
