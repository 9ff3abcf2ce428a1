// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"seodash/internal/markdown"
	"seodash/internal/models"
	"seodash/internal/seo"
)

func generateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.RequireProvider(); err != nil {
		return err
	}

	gen := seo.NewGenerator(newRegistry(cfg))
	result, err := gen.GeneratePost(c.Context, c.String("slug"), c.String("prompt"))
	if err != nil {
		return fmt.Errorf("generate %q: %w", c.String("slug"), err)
	}

	return printJSON(c.App.Writer, struct {
		seo.GenerationResult
		Stats models.Stats `json:"stats"`
	}{result, seo.ComputeStats(result.Content, result.Keywords)})
}

func statsAction(c *cli.Context) error {
	path := c.String("file")
	if path == "" {
		path = c.Args().First()
	}
	if path == "" {
		return fmt.Errorf("no input: pass --file or a path argument")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	stats, err := documentStats(data, c.String("keywords"))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return printJSON(c.App.Writer, stats)
}

// documentStats computes statistics for a markdown document. Keywords come
// from the front matter unless override lists some. Surrounding whitespace
// of the body is ignored so a trailing newline does not count as a word.
func documentStats(data []byte, override string) (models.Stats, error) {
	fm, body, err := markdown.ParseDocument(data)
	if err != nil {
		return models.Stats{}, err
	}

	keywords := fm.Keywords
	if kw := splitList(override); len(kw) > 0 {
		keywords = kw
	}
	return seo.ComputeStats(strings.TrimSpace(body), keywords), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
