package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fennhauser/werkbank/internal"
	pkgconfig "github.com/fennhauser/werkbank/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "werkbank",
		Usage: "Directory-per-record project store with year-partitioned archive and git sync",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/werkbank/config.yaml",
				Sources:     cli.EnvVars("WERKBANK_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			initCommand(),
			newCommand(),
			listCommand(),
			searchCommand(),
			archiveCommand(),
			unarchiveCommand(),
			deleteCommand(),
			templatesCommand(),
			pathCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file (when present), applies defaults,
// validates, and installs the CLI logger.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	path := cmd.String("config")
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "werkbank", "config.yaml")
		}
	}

	cfg := internal.NewDefaultConfig()
	if path != "" {
		if err := pkgconfig.LoadIfPresent(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return cfg, nil
}
