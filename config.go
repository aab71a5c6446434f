package gfx

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the Renderer options.
//
// Example TOML:
//
//	stream_capacity = 2048
//	quad_capacity = 16384
//	bloom_capacity = 4096
//	log_level = "debug"
type Config struct {
	StreamCapacity int    `toml:"stream_capacity" yaml:"stream_capacity"`
	QuadCapacity   int    `toml:"quad_capacity" yaml:"quad_capacity"`
	BloomCapacity  int    `toml:"bloom_capacity" yaml:"bloom_capacity"`
	LogLevel       string `toml:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// DefaultConfig returns the configuration matching the default options.
func DefaultConfig() Config {
	return Config{
		StreamCapacity: DefaultStreamCapacity,
		QuadCapacity:   DefaultQuadCapacity,
		BloomCapacity:  DefaultBloomCapacity,
	}
}

// LoadConfig reads a configuration file. The format is chosen by extension:
// .toml, .yaml or .yml. Fields missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gfx: load config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Config{}, fmt.Errorf("gfx: load config %q: %w", path, ErrUnknownConfigFormat)
	}
}

// ParseTOML decodes a TOML configuration over the defaults.
func ParseTOML(data []byte) (Config, error) {
	c := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("gfx: parse toml config: %w", err)
	}
	return c, c.validate()
}

// ParseYAML decodes a YAML configuration over the defaults.
func ParseYAML(data []byte) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("gfx: parse yaml config: %w", err)
	}
	return c, c.validate()
}

// EncodeTOML encodes the configuration as TOML.
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}

// EncodeYAML encodes the configuration as YAML.
func (c Config) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c Config) validate() error {
	if c.StreamCapacity < 0 || c.QuadCapacity < 0 || c.BloomCapacity < 0 {
		return fmt.Errorf("gfx: config: negative capacity (stream=%d quad=%d bloom=%d)",
			c.StreamCapacity, c.QuadCapacity, c.BloomCapacity)
	}
	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel. An empty level is slog.LevelInfo.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("gfx: config: log level: %w", err)
	}
	return l, nil
}

// Options converts the configuration to Renderer options.
func (c Config) Options() []Option {
	return []Option{
		WithStreamCapacity(c.StreamCapacity),
		WithQuadCapacity(c.QuadCapacity),
		WithBloomCapacity(c.BloomCapacity),
	}
}
