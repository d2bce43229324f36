// Package config provides configuration types and defaults for idkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/prefixid"
)

// KindConfig declares one identifier kind.
type KindConfig struct {
	Name    string   `mapstructure:"name" yaml:"name"`
	Prefix  string   `mapstructure:"prefix" yaml:"prefix"`
	Aliases []string `mapstructure:"aliases" yaml:"aliases,omitempty"`
}

// Descriptor converts k to its runtime descriptor.
func (k KindConfig) Descriptor() prefixid.Descriptor {
	return prefixid.Descriptor{Name: k.Name, Prefix: k.Prefix, Aliases: k.Aliases}
}

// GeneratorConfig controls suffix generation.
type GeneratorConfig struct {
	Alphabet string `mapstructure:"alphabet"` // default: nanoid URL-safe alphabet
	Length   int    `mapstructure:"length"`   // default: 21
}

// LedgerConfig holds the mint ledger location.
type LedgerConfig struct {
	// Path is the SQLite database file.
	// Default: ~/.idkit/ledger.db
	Path string `mapstructure:"path"`
}

// DiagnosticsConfig controls the parse-failure echo.
type DiagnosticsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Throttle time.Duration `mapstructure:"throttle"` // repeats of the same candidate within this window are dropped
}

// LogConfig controls the debug log.
type LogConfig struct {
	Path  string `mapstructure:"path"`  // default: idkit-debug.log
	Level string `mapstructure:"level"` // debug (default), info, warn, error
}

// TracingConfig holds distributed tracing settings.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`      // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`     // JSONL output for the file exporter
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"` // default: localhost:4317
	SampleRate   float64 `mapstructure:"sample_rate"`   // 0.0-1.0
	ServiceName  string  `mapstructure:"service_name"`  // default: idkit
}

// Config holds all configuration options for idkit.
type Config struct {
	Generator   GeneratorConfig   `mapstructure:"generator"`
	Kinds       []KindConfig      `mapstructure:"kinds"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// NewGenerator builds a prefixid.Generator from the generator section.
// Empty values fall back to the prefixid defaults.
func (c Config) NewGenerator() (*prefixid.Generator, error) {
	var opts []prefixid.Option
	if c.Generator.Alphabet != "" {
		opts = append(opts, prefixid.WithAlphabet(c.Generator.Alphabet))
	}
	if c.Generator.Length != 0 {
		opts = append(opts, prefixid.WithLength(c.Generator.Length))
	}
	g, err := prefixid.NewGenerator(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return g, nil
}

// DefaultLedgerPath returns ~/.idkit/ledger.db, or a relative path when the
// home directory is unknown.
func DefaultLedgerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".idkit", "ledger.db")
	}
	return filepath.Join(home, ".idkit", "ledger.db")
}

// DefaultKinds returns the kinds shipped in the default config.
func DefaultKinds() []KindConfig {
	return []KindConfig{
		{Name: "UserID", Prefix: "usr", Aliases: []string{"user"}},
		{Name: "OrderID", Prefix: "ord"},
		{Name: "AccountID", Prefix: "acct"},
	}
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Generator: GeneratorConfig{
			Alphabet: prefixid.DefaultAlphabet,
			Length:   prefixid.DefaultLength,
		},
		Kinds: DefaultKinds(),
		Ledger: LedgerConfig{
			Path: DefaultLedgerPath(),
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:  true,
			Throttle: time.Minute,
		},
		Log: LogConfig{
			Path:  "idkit-debug.log",
			Level: "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "idkit",
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if _, err := c.NewGenerator(); err != nil {
		return err
	}
	if err := ValidateKinds(c.Kinds); err != nil {
		return err
	}
	if c.Diagnostics.Throttle < 0 {
		return fmt.Errorf("diagnostics.throttle must not be negative, got %s", c.Diagnostics.Throttle)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateKinds checks each kind and rejects duplicate names or prefixes.
func ValidateKinds(kinds []KindConfig) error {
	names := make(map[string]int, len(kinds))
	prefixes := make(map[string]string, len(kinds))
	for i, k := range kinds {
		if err := k.Descriptor().Validate(); err != nil {
			return fmt.Errorf("kind %d: %w", i, err)
		}
		folded := strings.ToLower(k.Name)
		if j, dup := names[folded]; dup {
			return fmt.Errorf("kind %d: name %q already used by kind %d", i, k.Name, j)
		}
		names[folded] = i
		for _, p := range k.Descriptor().Accepted() {
			if owner, taken := prefixes[p]; taken {
				return fmt.Errorf("kind %d: prefix %q already claimed by %s", i, p, owner)
			}
			prefixes[p] = k.Name
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be one of none, file, stdout, otlp; got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	if tracing.Enabled && tracing.Exporter == "file" && tracing.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# idkit configuration

# Suffix generation
generator:
  # nanoid URL-safe alphabet; 21 symbols give 126 bits of entropy
  alphabet: "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
  length: 21
  # Look-alike free alternative (use length 23 or more):
  # alphabet: "346789ABCDEFGHJKLMNPQRTUVWXYabcdefghijkmnpqrtwxyz"

# Identifier kinds. Prefixes are 1-4 characters without "_".
# Aliases are accepted when parsing but never generated.
kinds:
  - name: UserID
    prefix: usr
    aliases: [user]
  - name: OrderID
    prefix: ord
  - name: AccountID
    prefix: acct

# Mint ledger (idkit new --record)
# ledger:
#   path: ~/.idkit/ledger.db

# Parse-failure diagnostics written to the debug log
diagnostics:
  enabled: true
  throttle: 1m   # drop repeats of the same candidate within this window

# Debug log (enabled with --debug or IDKIT_DEBUG=1)
log:
  path: idkit-debug.log
  level: debug   # debug, info, warn, error

# Tracing
# tracing:
#   enabled: false
#   exporter: stdout               # none, file, stdout, otlp
#   file_path: idkit-traces.jsonl  # file exporter only
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
#   service_name: idkit
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
