package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnvm "github.com/msto63/galnotes/foundation/galnotes/vm"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "GALNOTES_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	History     HistoryConfig     `toml:"history" yaml:"history"`
	REPL        REPLConfig        `toml:"repl" yaml:"repl"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// InterpreterConfig holds statement pipeline settings
type InterpreterConfig struct {
	IgnoreCase     bool   `toml:"ignore_case" yaml:"ignore_case"`
	Currency       string `toml:"currency" yaml:"currency"`
	RulesFile      string `toml:"rules_file" yaml:"rules_file"`
	MaxInputLength int    `toml:"max_input_length" yaml:"max_input_length"`
}

// HistoryConfig holds transcript store settings
type HistoryConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt      string `toml:"prompt" yaml:"prompt"`
	HistorySize int    `toml:"history_size" yaml:"history_size"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, configError(fmt.Sprintf("config file not found: %s", path), err, path)
		}
		return nil, configError("failed to read config", err, path)
	}

	cfg := Config{History: HistoryConfig{Enabled: true}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, configError("failed to parse config", err, path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the GALNOTES_CONFIG environment
// variable or the default locations. Without any file the defaults are
// returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = findDefault()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPaths lists the locations searched when no path is configured
func DefaultPaths() []string {
	return []string{
		"./configs/galnotes.toml",
		"./galnotes.toml",
		filepath.Join(os.Getenv("HOME"), ".config/galnotes/galnotes.toml"),
	}
}

func findDefault() string {
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "galnotes"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = filepath.Join(os.Getenv("HOME"), ".local/share/galnotes")
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Interpreter
	if c.Interpreter.Currency == "" {
		c.Interpreter.Currency = "Credits"
	}
	if c.Interpreter.MaxInputLength == 0 {
		c.Interpreter.MaxInputLength = 1024
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.Retention.Duration == 0 {
		c.History.Retention.Duration = 30 * 24 * time.Hour
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "> "
	}
	if c.REPL.HistorySize == 0 {
		c.REPL.HistorySize = 100
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Interpreter.RulesFile = os.ExpandEnv(c.Interpreter.RulesFile)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch strings.ToLower(c.General.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return invalid("general.log_level", c.General.LogLevel)
	}
	switch strings.ToLower(c.General.LogFormat) {
	case "text", "console", "json", "logfmt":
	default:
		return invalid("general.log_format", c.General.LogFormat)
	}
	if gnvm.ValidateCurrency(c.Interpreter.Currency) != nil {
		return invalid("interpreter.currency", c.Interpreter.Currency)
	}
	if c.Interpreter.MaxInputLength < 0 {
		return invalid("interpreter.max_input_length", c.Interpreter.MaxInputLength)
	}
	if c.History.Retention.Duration < 0 {
		return invalid("history.retention", c.History.Retention.String())
	}
	if c.REPL.HistorySize < 0 {
		return invalid("repl.history_size", c.REPL.HistorySize)
	}
	return nil
}

func configError(message string, err error, path string) error {
	return gnerror.Wrap(err, message).
		WithCode(gnerror.CodeConfigError).
		WithOperation("config.Load").
		WithDetail("path", path)
}

func invalid(key string, value interface{}) error {
	return gnerror.Newf("invalid value for %s: %v", key, value).
		WithCode(gnerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("key", key)
}
