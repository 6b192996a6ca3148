package clog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the configuration.
// Each override should be in the format "key=value".
//
// Example:
//
//	cfg := clog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "file_level=warning",
//	    "max_files=5",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(next, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return wrapError(ErrConfig, combineConfigErrors(errors))
	}

	if err := next.validate(); err != nil {
		return wrapError(ErrConfig, err)
	}

	*c = *next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("clog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "clog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Rotation set
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "max_files":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_files '%s': %w", value, err)
		}
		cfg.MaxFiles = intVal
	case "max_file_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_file_size '%s': %w", value, err)
		}
		cfg.MaxFileSize = intVal

	// Buffering
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal

	// Formatting
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "utc":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for utc '%s': %w", value, err)
		}
		cfg.UTC = boolVal

	// Filtering, levels accept both numeric and named values
	case "console_level":
		level, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid console_level value '%s': %w", value, err)
		}
		cfg.ConsoleLevel = level
	case "file_level":
		level, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid file_level value '%s': %w", value, err)
		}
		cfg.FileLevel = level
	case "clean_category":
		cfg.CleanCategory = value
	case "clean_to_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for clean_to_file '%s': %w", value, err)
		}
		cfg.CleanToFile = boolVal

	// Console output
	case "disable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for disable_console '%s': %w", value, err)
		}
		cfg.DisableConsole = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// Diagnostics
	case "report_timings":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for report_timings '%s': %w", value, err)
		}
		cfg.ReportTimings = boolVal
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal
	case "heartbeat_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_s '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalS = intVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// parseLevelValue accepts a level name or its numeric value
func parseLevelValue(value string) (Level, error) {
	if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
		level := Level(numVal)
		if rank(level) < 0 {
			return 0, fmtErrorf("unknown level number %d", numVal)
		}
		return level, nil
	}
	return ParseLevel(value)
}
