package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tqbf/doctree/pkg/config"
	"github.com/tqbf/doctree/pkg/contentapi"
)

const appVersion = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "doctree",
		Usage: "browse a remote documentation tree",
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"DOCTREE_CONFIG"},
				Usage:   "YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "root",
				EnvVars: []string{"DOCTREE_ROOT"},
				Usage:   "content root URL",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: contentapi.DefaultTimeout,
				Usage: "per-fetch timeout",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			lsCmd(),
			catCmd(),
			doctorCmd(),
			{
				Name:  "version",
				Usage: "print version",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, appVersion)
					return nil
				},
			},
		},
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}

// loadConfig layers flags and environment over the config file over the
// defaults.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if p := c.String("config"); p != "" {
		var err error
		cfg, err = config.Load(p)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if c.IsSet("root") {
		cfg.ContentRoot = c.String("root")
	}
	if c.IsSet("timeout") {
		cfg.FetchTimeout = c.Duration("timeout")
	}
	return cfg, nil
}

type stack struct {
	cfg config.Config
	*config.Stack
}

func newStack(cfg config.Config) (*stack, error) {
	st, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	slog.Debug("content root",
		"url", cfg.ContentRoot,
		"source", cfg.Source,
		"timeout", cfg.FetchTimeout,
	)
	return &stack{cfg: cfg, Stack: st}, nil
}

func stackFromFlags(c *cli.Context) (*stack, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newStack(cfg)
}

// signalContext is canceled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}
