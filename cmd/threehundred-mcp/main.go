package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/threehundred/internal/app"
	"github.com/meltforce/threehundred/internal/config"
	trackermcp "github.com/meltforce/threehundred/internal/mcp"
	"github.com/meltforce/threehundred/internal/metrics"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg, metrics.NewRegistry(), "mcp", log)
	if err != nil {
		log.Error("failed to start tracker", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	log.Info("threehundred-mcp serving on stdio", "version", Version)
	if err := mcpserver.ServeStdio(trackermcp.New(a.Tracker, Version, log)); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
