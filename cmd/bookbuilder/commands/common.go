// Package commands holds the bookbuilder CLI commands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/config"
	"git.home.luguber.info/inful/bookbuilder/internal/metrics"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"book.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the pages whose chapter, code or templates changed"`
	Serve ServeCmd `cmd:"" help:"Serve the book, rebuilding pages as they are requested"`
	Watch WatchCmd `cmd:"" help:"Serve the book and rebuild whenever its sources change"`
	Init  InitCmd  `cmd:"" help:"Create an example book and configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// book is a loaded configuration with its builder and metrics.
type book struct {
	cfg      *config.Config
	builder  *build.Builder
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder
}

// openBook loads the configuration and creates a builder recording into a
// fresh metrics registry.
func openBook(configPath string) (*book, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	builder, err := build.New(cfg, build.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}
	return &book{cfg: cfg, builder: builder, registry: reg, recorder: recorder}, nil
}
