package clog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Initialization failures returned by New
var (
	ErrConfig    = errors.New("clog: invalid configuration")
	ErrDirectory = errors.New("clog: log directory unusable")
)

// callerLocation returns the source file base name and short function name of a caller.
// Argument lists and receiver decorations are trimmed the same way for every caller.
func callerLocation(skip int) (file, function string) {
	var pcs [1]uintptr
	// +2 for runtime.Callers and callerLocation itself
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return "", ""
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.PC == 0 {
		return "", ""
	}
	return filepath.Base(frame.File), shortFuncName(frame.Function)
}

// CallerLocation returns the file base name and short function name for a Record.
// skip 0 is the function calling CallerLocation.
func CallerLocation(skip int) (file, function string) {
	return callerLocation(skip + 1)
}

// shortFuncName strips the import path from a fully qualified function name
func shortFuncName(name string) string {
	name = filepath.Base(name)
	parts := strings.Split(name, ".")
	last := parts[len(parts)-1]
	// Closures are reported as their enclosing function
	if strings.HasPrefix(last, "func") && len(parts) > 2 {
		return strings.Join(parts[1:len(parts)-1], ".") + "()"
	}
	if len(parts) > 1 {
		return strings.Join(parts[1:], ".") + "()"
	}
	return name + "()"
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "clog: ") {
		format = "clog: " + format
	}
	return fmt.Errorf(format, args...)
}

// wrapError tags err with a sentinel while keeping both matchable by errors.Is
func wrapError(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level name to its constant.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf":
		return LevelInfo, nil
	case "warn", "warning", "wrn":
		return LevelWarning, nil
	case "critical", "crt":
		return LevelCritical, nil
	case "fatal", "ftl":
		return LevelFatal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warning, critical, fatal)", levelStr)
	}
}

// applicationName returns the executable base name without extension
func applicationName() string {
	name := filepath.Base(os.Args[0])
	if exe, err := os.Executable(); err == nil {
		name = filepath.Base(exe)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return "app"
	}
	return name
}

// applicationDir returns the directory holding the executable
func applicationDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return "."
}
