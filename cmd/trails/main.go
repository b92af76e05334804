// Package main is the trails CLI. It loads the trail listing through the
// fetch client and prints it as a table, or reports why the load failed.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pkordes/trails/internal/config"
	"github.com/pkordes/trails/internal/domain"
	"github.com/pkordes/trails/internal/trailapi"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, logger, os.Stdout))
}

// run loads the trails once and writes them to out. It returns the process
// exit code: 0 on success, 1 on a request error, 2 on a validation error.
func run(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger, out io.Writer) int {
	client, err := trailapi.New(cfg.BaseURL,
		trailapi.WithValidation(cfg.Validate),
		trailapi.WithLogger(logger),
	)
	if err != nil {
		logger.Error("invalid client configuration", "error", err)
		return 1
	}

	res := client.Resource()
	unsubscribe := res.Subscribe(func(s trailapi.State) {
		logger.Debug("trails resource", "status", s.Status.String(), "reason", s.Reason().String())
	})
	defer unsubscribe()

	s := res.Load(ctx)
	switch s.Status {
	case trailapi.StatusSuccess:
		printTrails(out, s.Trails)
		return 0
	case trailapi.StatusError:
		logger.Error("failed to load trails", "reason", s.Reason().String(), "error", s.Err)
		if s.Reason() == trailapi.ReasonValidation {
			return 2
		}
		return 1
	default:
		// The context ended before the fetch settled.
		logger.Error("trail load interrupted", "status", s.Status.String())
		return 1
	}
}

func printTrails(out io.Writer, trails []domain.Trail) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDISTANCE\tDIFFICULTY\tLAST MAINTAINED")
	for _, t := range trails {
		maintained := "-"
		if t.LastMaintained != nil {
			maintained = t.LastMaintained.Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n", t.ID, t.Name, t.Distance, t.Difficulty, maintained)
	}
	tw.Flush()
}
