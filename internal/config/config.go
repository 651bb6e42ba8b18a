// Package config handles loading and parsing of rassist configuration files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/statlab-ide/rassist/internal/rerrors"
)

// SupportedConfigNames contains supported configuration file names (in order of preference)
var SupportedConfigNames = []string{
	".rassist.yml",
	".rassist.yaml",
	".rassist.toml",
	".rassist.json",
}

//go:embed defaults.yml
var defaultsYAML []byte

// ProviderConfig configures the remote completion provider
type ProviderConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ChunkConfig configures chunk-option completion
type ChunkConfig struct {
	Engine string `koanf:"engine"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `koanf:"level"`
}

// ServerConfig configures the stdio completion server
type ServerConfig struct {
	MaxRequestBytes int `koanf:"max_request_bytes"`
}

// Config represents a rassist configuration
type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Chunk    ChunkConfig    `koanf:"chunk"`
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
}

// FindConfig returns the first supported config file present in dir, or ""
func FindConfig(dir string) string {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Default returns the built-in configuration
func Default() (*Config, error) {
	return Load("")
}

// Load reads path on top of the built-in defaults. An empty path yields the
// defaults alone.
func Load(path string) (*Config, error) {
	k, err := koanfWithDefaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, rerrors.NewConfigurationError(path, "failed to load config", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, rerrors.NewConfigurationError(path, "failed to parse config", err)
	}
	return cfg, nil
}

func koanfWithDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, rerrors.NewConfigurationError("defaults", "failed to load built-in defaults", err)
	}
	return k, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, rerrors.NewConfigurationError(path, fmt.Sprintf("unsupported config format: %s", filepath.Ext(path)), nil)
	}
}
