package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/primerlab/primer/cmd/primer/commands"
	"github.com/primerlab/primer/pkg/config"
	"github.com/primerlab/primer/pkg/course"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	initLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, Version, Commit, BuildDate)
	stop()

	if err != nil {
		log.Error().Err(err).Str("class", string(course.ClassOf(err))).Msg("primer failed")
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input and 1 for everything else.
func exitCode(err error) int {
	if course.IsInvalid(err) || course.IsNotFound(err) {
		return 2
	}
	return 1
}

// initLogging sets up the console logger used until a config file has
// been read.
func initLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	level, err := zerolog.ParseLevel(os.Getenv(config.EnvLogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
