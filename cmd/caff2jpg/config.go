package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/caff2jpg/internal/logger"
)

const envConfig = "CAFF2JPG_CONFIG"

// Config represents the caff2jpg configuration file
// (~/.config/caff2jpg/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Quality *int64 `yaml:"quality"`
	Strict  *bool  `yaml:"strict"`

	ServerAddress string `yaml:"server_address"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

// configPath returns the explicit path, then $CAFF2JPG_CONFIG, then the
// default location under the user config dir.
func configPath(explicit string) (string, bool) {
	if p := strings.TrimSpace(explicit); p != "" {
		return filepath.Clean(p), true
	}
	if p := strings.TrimSpace(os.Getenv(envConfig)); p != "" {
		return filepath.Clean(p), true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "caff2jpg", "config.yaml"), false
}

// LoadConfig reads the config file at path. A missing default file yields a
// zero Config; a missing file that was asked for explicitly is an error.
func LoadConfig(path string, required bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConversionConfig applies config file defaults to the conversion flags
// that were not set explicitly.
func applyConversionConfig(c *cli.Command, cfg Config) {
	if cfg.Quality != nil && !c.IsSet("quality") {
		quality = *cfg.Quality
	}
	if cfg.Strict != nil && !c.IsSet("strict") {
		strict = *cfg.Strict
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBody *int64) {
	applyConversionConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body-bytes") {
		*maxBody = *cfg.MaxBodyBytes
	}
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// prepare loads the config file and stores the configured logger in ctx.
func prepare(ctx context.Context, c *cli.Command) (context.Context, Config, error) {
	path, required := configPath(configFile)
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return ctx, Config{}, err
	}
	applyLoggingConfig(c, cfg)

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, Config{}, err
	}
	if debug {
		level = slog.LevelDebug
	}
	log, err := logger.ForFormat(logFormat, errWriter(c), level)
	if err != nil {
		return ctx, Config{}, err
	}
	if path != "" {
		log.Debug("config resolved", "path", path)
	}
	return logger.WithContext(ctx, log), cfg, nil
}

func errWriter(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func outWriter(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
