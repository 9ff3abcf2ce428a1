// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for seodash. It serves the dashboard and
// JSON API, runs migrations, and exposes one-shot generation and statistics
// commands for the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"seodash/internal/ai"
	"seodash/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seodash",
		Usage: "generate, score and store SEO articles",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Usage:   "load environment variables from `FILE` (repeatable)",
				EnvVars: []string{"ENV_FILE"},
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelDebug
			if c.Bool("quiet") {
				level = slog.LevelError
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: migrateAction,
			},
			{
				Name:  "generate",
				Usage: "generate one article and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Usage: "URL slug of the article", Required: true},
					&cli.StringFlag{Name: "prompt", Usage: "instructions for the writer", Required: true},
				},
				Action: generateAction,
			},
			{
				Name:      "stats",
				Usage:     "print word count and keyword density for a markdown file",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "markdown `FILE`, - for stdin"},
					&cli.StringFlag{Name: "keywords", Aliases: []string{"k"}, Usage: "comma-separated keywords, overrides front matter"},
				},
				Action: statsAction,
			},
		},
	}
}

// loadConfig reads configuration using the global --env-file flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// newRegistry builds the provider registry from every configured key.
func newRegistry(cfg *config.Config) *ai.Registry {
	return ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		config.ProviderGroq:   {APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel, BaseURL: cfg.GroqBaseURL},
		config.ProviderOpenAI: {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	})
}
