// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// FrontMatter is the YAML header written at the top of exported articles.
type FrontMatter struct {
	Title     string   `yaml:"title"`
	Slug      string   `yaml:"slug,omitempty"`
	Keywords  []string `yaml:"keywords,omitempty"`
	WordCount int      `yaml:"word_count,omitempty"`
	Date      string   `yaml:"date,omitempty"`
}

// Document renders an article as a markdown file with a YAML front matter block.
func Document(fm FrontMatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.Write(header)
	buf.WriteString(fence)
	buf.WriteByte('\n')
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// ParseDocument splits a markdown file into its front matter and body.
// Files without a front matter block return a zero FrontMatter and the
// whole input as body.
func ParseDocument(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(fence)) {
		return fm, string(data), nil
	}

	rest := data[len(fence):]
	end := bytes.Index(rest, []byte("\n"+fence))
	if end < 0 {
		return fm, "", fmt.Errorf("front matter: missing closing %q", "---")
	}

	if err := yaml.Unmarshal(rest[:end+1], &fm); err != nil {
		return fm, "", fmt.Errorf("front matter: %w", err)
	}

	body := rest[end+1+len(fence):]
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, string(body), nil
}
