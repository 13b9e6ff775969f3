/*
config.go - Server configuration

PURPOSE:
  Collects everything cmd/server needs to start: listen port, database
  path, tenure calculator policy, seeding and the recalculation scheduler.

SOURCES (later wins):
  1. Defaults()
  2. YAML file given by -config
  3. Command-line flags that were explicitly set (-port, -db, -seed)

FILE FORMAT:
  server:
    port: 8080
    read_timeout: 15s
    allowed_origins: ["http://localhost:5173"]
  database:
    path: tenure.db
  tenure:
    negative_range: reject      # reject | clamp | passthrough
    allow_negative_claims: false
  seed:
    enabled: true
    path: ""                    # empty = bundled dataset
  scheduler:
    enabled: true
    interval: 1h

SEE ALSO:
  - cmd/server/main.go: consumer
  - tenure/calculator.go: RangePolicy
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// TYPES
// =============================================================================

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tenure    TenureConfig    `yaml:"tenure"`
	Seed      SeedConfig      `yaml:"seed"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	// Path is the SQLite file. ":memory:" keeps everything in memory.
	Path string `yaml:"path"`
}

type TenureConfig struct {
	NegativeRange       string `yaml:"negative_range"`
	AllowNegativeClaims bool   `yaml:"allow_negative_claims"`
}

type SeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database:  DatabaseConfig{Path: "tenure.db"},
		Tenure:    TenureConfig{NegativeRange: string(tenure.RangeReject)},
		Seed:      SeedConfig{Enabled: true},
		Scheduler: SchedulerConfig{Enabled: true, Interval: time.Hour},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults. Keys absent from the input keep
// their default values; unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromArgs builds the configuration from command-line arguments (without
// the program name): -config selects a file, and -port, -db and -seed
// override it when given.
func FromArgs(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	port := fs.Int("port", 0, "HTTP server port (default 8080)")
	dbPath := fs.String("db", "", `SQLite database path, ":memory:" for in-memory (default tenure.db)`)
	seed := fs.Bool("seed", true, "seed an empty database with the bundled dataset")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = Load(*configPath); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "db":
			cfg.Database.Path = *dbPath
		case "seed":
			cfg.Seed.Enabled = *seed
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks values that would otherwise fail at startup.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("config: database.path is required")
	}
	if _, err := c.RangePolicy(); err != nil {
		return fmt.Errorf("config: tenure.negative_range: %w", err)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("config: scheduler.interval must be positive, got %v", c.Scheduler.Interval)
	}
	return nil
}

// RangePolicy is the parsed tenure.negative_range.
func (c Config) RangePolicy() (tenure.RangePolicy, error) {
	return tenure.ParseRangePolicy(c.Tenure.NegativeRange)
}

// Calculator builds the tenure calculator described by the config.
func (c Config) Calculator(clock tenure.Clock) (*tenure.Calculator, error) {
	policy, err := c.RangePolicy()
	if err != nil {
		return nil, err
	}
	calc := tenure.NewCalculator(clock)
	calc.RangePolicy = policy
	calc.AllowNegativeClaims = c.Tenure.AllowNegativeClaims
	return calc, nil
}

// Addr is the listen address for net/http.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
