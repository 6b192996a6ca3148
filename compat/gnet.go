package compat

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/clog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps clog.Logger to implement gnet logging.Logger interface
type GnetAdapter struct {
	logger   *clog.Logger
	category string
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *clog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger:   logger,
		category: "gnet",
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithGnetCategory sets the category of records produced by gnet
func WithGnetCategory(category string) GnetOption {
	return func(a *GnetAdapter) {
		a.category = category
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	file, function := clog.CallerLocation(1)
	a.logger.Handle(clog.Record{
		Level:    clog.LevelDebug,
		Category: a.category,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Function: function,
	})
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.handle(clog.LevelInfo, format, args)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.handle(clog.LevelWarning, format, args)
}

// Errorf logs at critical level, which forces the record to disk
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.handle(clog.LevelCritical, format, args)
}

// Fatalf logs at fatal level; the logger's exit hook terminates the process
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	a.handle(clog.LevelFatal, format, args)
}

func (a *GnetAdapter) handle(level clog.Level, format string, args []any) {
	a.logger.Handle(clog.Record{
		Level:    level,
		Category: a.category,
		Message:  fmt.Sprintf(format, args...),
	})
}
