package clog

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values.
// It is fixed once passed to New.
type Config struct {
	// Rotation set
	Name        string `toml:"name"`      // Application name, files are <name>_<N>.log
	Directory   string `toml:"directory"` // Empty means the executable directory
	MaxFiles    int64  `toml:"max_files"`
	MaxFileSize int64  `toml:"max_file_size"` // Bytes

	// Buffering, below 1000 every record is written inline
	FlushIntervalMs int64 `toml:"flush_interval_ms"`

	// Formatting
	TimestampFormat string `toml:"timestamp_format"` // Go time layout
	UTC             bool   `toml:"utc"`

	// Filtering
	ConsoleLevel  Level  `toml:"console_level"`
	FileLevel     Level  `toml:"file_level"`
	CleanCategory string `toml:"clean_category"` // Raw console output for this category only
	CleanToFile   bool   `toml:"clean_to_file"`  // Persist and forward clean category records

	// Console output
	DisableConsole bool   `toml:"disable_console"`
	ConsoleTarget  string `toml:"console_target"` // "stdout" or "stderr"

	// Diagnostics
	ReportTimings          bool  `toml:"report_timings"`            // Print flush and rotation timings to console
	InternalErrorsToStderr bool  `toml:"internal_errors_to_stderr"` // Mirror reported errors to stderr
	HeartbeatIntervalS     int64 `toml:"heartbeat_interval_s"`      // 0 disables
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Rotation set
	Name:        "",
	Directory:   "",
	MaxFiles:    10,
	MaxFileSize: 10 * 1024 * 1024,

	// Buffering
	FlushIntervalMs: 10000,

	// Formatting
	TimestampFormat: "2006.01.02 15:04:05.000",
	UTC:             false,

	// Filtering
	ConsoleLevel:  LevelDebug,
	FileLevel:     LevelDebug,
	CleanCategory: "",
	CleanToFile:   true,

	// Console output
	DisableConsole: false,
	ConsoleTarget:  "stdout",

	// Diagnostics
	ReportTimings:          false,
	InternalErrorsToStderr: false,
	HeartbeatIntervalS:     0,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("clog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Missing file falls back to defaults
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, wrapError(ErrConfig, fmtErrorf("failed to load config from %s: %w", path, err))
	}

	if err := extractConfig(loader, "clog.", cfg); err != nil {
		return nil, wrapError(ErrConfig, fmtErrorf("failed to extract config values: %w", err))
	}

	if err := cfg.validate(); err != nil {
		return nil, wrapError(ErrConfig, err)
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, wrapError(ErrConfig, fmtErrorf("failed to apply overrides: %w", err))
	}

	if err := cfg.validate(); err != nil {
		return nil, wrapError(ErrConfig, err)
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Keep default
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides keyed by toml tag
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

var levelType = reflect.TypeOf(Level(0))

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case Level:
			field.SetInt(int64(v))
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case string:
			// Levels may be given by name
			if field.Type() != levelType {
				return fmt.Errorf("expected int64, got %T", value)
			}
			level, err := ParseLevel(v)
			if err != nil {
				return err
			}
			field.SetInt(int64(level))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.ContainsAny(c.Name, `/\`) {
		return fmtErrorf("log name cannot contain path separators: '%s'", c.Name)
	}

	if err := validateTimestampFormat(c.TimestampFormat); err != nil {
		return err
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.FlushIntervalMs < 0 {
		return fmtErrorf("flush_interval_ms cannot be negative: %d", c.FlushIntervalMs)
	}

	if c.MaxFiles < 0 || c.MaxFileSize < 0 {
		return fmtErrorf("rotation limits cannot be negative")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	for _, level := range []Level{c.ConsoleLevel, c.FileLevel} {
		if rank(level) < 0 {
			return fmtErrorf("unknown level: %d", int64(level))
		}
	}

	return nil
}

// normalize fills environment defaults and clamps rotation limits to their minimums
func (c *Config) normalize() {
	if c.Name == "" {
		c.Name = applicationName()
	}
	if c.Directory == "" {
		c.Directory = applicationDir()
	}
	c.Directory = filepath.Clean(c.Directory)
	if c.MaxFiles < minMaxFiles {
		c.MaxFiles = minMaxFiles
	}
	if c.MaxFileSize < minMaxFileSize {
		c.MaxFileSize = minMaxFileSize
	}
}

// Buffered reports whether records are collected for periodic flushing
func (c *Config) Buffered() bool {
	return c.FlushIntervalMs >= minFlushInterval.Milliseconds()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
