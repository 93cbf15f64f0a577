// Command envies lists the configured environments and runs
// random-policy episodes on them.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("envies failed")
		os.Exit(1)
	}
}
