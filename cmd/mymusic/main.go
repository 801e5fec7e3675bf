package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	a := &app{}
	if err := execute(newRootCommand(a), a); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
