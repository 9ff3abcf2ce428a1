// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and optional .env files. It provides a centralized Config struct
// used across the application.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported generation providers.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
)

// defaultDBPassword is rejected in production.
const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection. DatabaseURL (e.g. a Supabase connection
	// string) takes precedence over the individual fields.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Generation providers
	AIProvider    string // "groq" or "openai"
	GroqAPIKey    string
	GroqModel     string
	GroqBaseURL   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Optional S3 export of post markdown
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string
	S3PublicURL string

	// Generation rate limit per client IP
	GenerateRateLimit  int
	GenerateRateWindow time.Duration

	// Reverse proxies whose X-Forwarded-For / X-Real-IP headers are trusted
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Variables from envFiles are loaded
// first without overriding the real environment; when no files are given
// an optional ".env" in the working directory is used.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:      envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:      envOrDefault("POSTGRES_USER", "seodash"),
		DBPassword:  envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:      envOrDefault("POSTGRES_DB", "seodash"),
		DBSSLMode:   envOrDefault("POSTGRES_SSLMODE", "disable"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:    envOrDefault("AI_PROVIDER", ProviderGroq),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqModel:     envOrDefault("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:   envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Prefix:    envOrDefault("S3_PREFIX", "posts"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	var err error
	if cfg.GenerateRateLimit, err = strconv.Atoi(envOrDefault("GENERATE_RATE_LIMIT", "10")); err != nil || cfg.GenerateRateLimit < 1 {
		return nil, fmt.Errorf("GENERATE_RATE_LIMIT must be a positive integer")
	}
	if cfg.GenerateRateWindow, err = time.ParseDuration(envOrDefault("GENERATE_RATE_WINDOW", "1m")); err != nil || cfg.GenerateRateWindow < time.Second {
		return nil, fmt.Errorf("GENERATE_RATE_WINDOW must be a duration of at least 1s")
	}

	if cfg.TrustedProxies, err = parsePrefixes(os.Getenv("TRUSTED_PROXIES")); err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	if cfg.AIProvider != ProviderGroq && cfg.AIProvider != ProviderOpenAI {
		return nil, fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderGroq, ProviderOpenAI, cfg.AIProvider)
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// RequireProvider checks that the active generation provider has an API
// key. Commands that call the generation service run it at startup so a
// missing key fails before the first request.
func (c *Config) RequireProvider() error {
	switch c.AIProvider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return errors.New("GROQ_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// loadEnvFiles loads the given .env files, or an optional ".env" when none
// are given. Existing environment variables are never overridden.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parsePrefixes parses a comma-separated list of CIDR ranges or single
// addresses.
func parsePrefixes(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			p, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
