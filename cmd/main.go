package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/eduhub-backend/internal/app"
)

func main() {
	if err := checkArgs(os.Args, os.Stderr); err != nil {
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.OpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.OpTimeout)
		defer cancel()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}

	cli := &commandLine{
		log:         a.Log,
		svc:         a.Services,
		collections: a.Repos.Collections,
		counts:      cfg.Counts,
		seed:        cfg.Seed,
		out:         os.Stdout,
	}
	runErr := cli.run(ctx, os.Args)
	a.Close(context.Background())

	switch {
	case runErr == nil:
	case errors.Is(runErr, errHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "eduhub: %v\n", runErr)
		os.Exit(1)
	}
}
