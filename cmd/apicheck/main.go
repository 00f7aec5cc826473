package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app := &cli.App{
		Name:  "apicheck",
		Usage: "time the aggregation endpoints of a running outstack server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Value:   "http://localhost:8000",
				Usage:   "server to check",
				EnvVars: []string{"APICHECK_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Minute,
				Usage: "per-request timeout",
			},
			&cli.DurationFlag{
				Name:  "pause",
				Value: 2 * time.Second,
				Usage: "wait between checks",
			},
		},
		Action: run,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
