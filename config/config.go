package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Pjt727/classboard/schedule"
)

const EnvPrefix = "CLASSBOARD_"

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type Config struct {
	Title           string          `json:"title"`
	Timezone        string          `json:"timezone"`
	RefreshInterval time.Duration   `json:"refresh_interval"`
	Source          SourceConfig    `json:"source"`
	Classifier      schedule.Config `json:"classifier"`
	Server          ServerConfig    `json:"server"`
	Logging         LoggingConfig   `json:"logging"`
}

type SourceConfig struct {
	Kind string `json:"kind"`
	// csv files read on every cycle, rows are concatenated in order
	Paths       []string `json:"paths"`
	DatabaseURL string   `json:"database_url"`
}

type ServerConfig struct {
	Address        string   `json:"address"`
	AllowedOrigins []string `json:"allowed_origins"`
	// requests per second per client, 0 disables the limit
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	AddSource bool   `json:"add_source"`
	NoColor   bool   `json:"no_color"`
	// lines kept for the /logs page
	RingSize int `json:"ring_size"`
}

// Load reads an optional .env file, then the config file at path (if any)
// and finally CLASSBOARD_ prefixed environment overrides where a double
// underscore separates nesting, e.g. CLASSBOARD_SOURCE__KIND=postgres
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	// the connection string the migrations have always used
	if cfg.Source.DatabaseURL == "" {
		cfg.Source.DatabaseURL = os.Getenv("DB_CONN")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Title == "" {
		c.Title = "Class board"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Sao_Paulo"
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = time.Minute
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceCSV
	}
	if c.Source.Kind == SourceCSV && len(c.Source.Paths) == 0 {
		c.Source.Paths = []string{"schedule.csv"}
	}
	// zero is a legitimate morning start so only the later boundaries default
	if c.Classifier.AfternoonStart == 0 {
		c.Classifier.AfternoonStart = schedule.DefaultConfig().AfternoonStart
	}
	if c.Classifier.EveningStart == 0 {
		c.Classifier.EveningStart = schedule.DefaultConfig().EveningStart
	}
	if c.Server.Address == "" {
		c.Server.Address = ":3000"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.RingSize == 0 {
		c.Logging.RingSize = 200
	}
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s, got %s", c.RefreshInterval)
	}
	switch c.Source.Kind {
	case SourceCSV:
		if len(c.Source.Paths) == 0 {
			return errors.New("source.paths is required for a csv source")
		}
	case SourcePostgres:
		if c.Source.DatabaseURL == "" {
			return errors.New("source.database_url (or DB_CONN) is required for a postgres source")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if err := c.Classifier.Validate(); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit cannot be negative")
	}
	return nil
}

// Location is only valid after Validate succeeded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
