// Package main is the entry point for the dirpoll application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joe/dirpoll/internal/config"
	pkgerrors "github.com/joe/dirpoll/pkg/errors"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		report(err, "")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		report(err, "")
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// report prints err with actionable suggestions to stderr.
func report(err error, path string) {
	enriched := pkgerrors.NewEnricher().Enrich(err, path)

	fmt.Fprintf(os.Stderr, "Error: %v\n", enriched)

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", suggestions)
	}
}
