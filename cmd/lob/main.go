package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mimir/internal/book"
	"mimir/internal/replay"
	"mimir/internal/shell"
)

func main() {
	file := flag.String("file", "", "LOBSTER CSV file to load at startup")
	replayAll := flag.Bool("replay", false, "replay the loaded file before the prompt")
	verbose := flag.Bool("verbose", false, "log every replayed message")
	level := flag.String("log", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logLevel, err := zerolog.ParseLevel(*level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	manual := book.New()
	driver := replay.NewDriver()

	if *file != "" {
		if err := driver.Load(*file); err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("unable to load lobster file")
		}
		if *replayAll {
			driver.ReplayAll(*verbose)
			if err := driver.Validate(); err != nil {
				log.Fatal().Err(err).Msg("book invariants violated after replay")
			}
		}
	}

	sh := shell.New(manual, driver, os.Stdin, os.Stdout)
	if err := sh.Run(ctx); err != nil {
		log.Error().Err(err).Msg("shell exited with error")
	}
}
