package clog

import (
	"fmt"
)

// Producer methods. Each takes the record category first; an empty category is allowed.
// Arguments are joined with single spaces, the f variants use fmt formatting.

// Debug logs a message at debug level, annotated with the caller location.
func (l *Logger) Debug(category string, args ...any) {
	l.log(LevelDebug, category, renderArgs(args))
}

// Info logs a message at info level.
func (l *Logger) Info(category string, args ...any) {
	l.log(LevelInfo, category, renderArgs(args))
}

// Warning logs a message at warning level.
func (l *Logger) Warning(category string, args ...any) {
	l.log(LevelWarning, category, renderArgs(args))
}

// Critical logs a message at critical level and forces it to disk.
func (l *Logger) Critical(category string, args ...any) {
	l.log(LevelCritical, category, renderArgs(args))
}

// Fatal logs a message at fatal level, forces it to disk and exits.
func (l *Logger) Fatal(category string, args ...any) {
	l.log(LevelFatal, category, renderArgs(args))
}

// Log logs a message at the given level.
func (l *Logger) Log(level Level, category string, args ...any) {
	l.log(level, category, renderArgs(args))
}

func (l *Logger) Debugf(category, format string, args ...any) {
	l.log(LevelDebug, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(category, format string, args ...any) {
	l.log(LevelInfo, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(category, format string, args ...any) {
	l.log(LevelWarning, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Criticalf(category, format string, args ...any) {
	l.log(LevelCritical, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Fatalf(category, format string, args ...any) {
	l.log(LevelFatal, category, fmt.Sprintf(format, args...))
}
