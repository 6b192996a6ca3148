package clog

import (
	"io"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg, b.opts...)
}

// Override applies "key=value" overrides on top of the values set so far.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.ApplyOverride(overrides...); err != nil {
		b.err = err
	}
	return b
}

// Name sets the application name used for log file names.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FlushIntervalMs sets the buffering period, values below 1000 disable buffering.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// MaxFiles sets the number of files kept in the rotation set.
func (b *Builder) MaxFiles(count int64) *Builder {
	b.cfg.MaxFiles = count
	return b
}

// MaxFileSize sets the size limit of a single log file in bytes.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// MaxFileSizeMB sets the size limit of a single log file in MiB. Convenience.
func (b *Builder) MaxFileSizeMB(size int64) *Builder {
	b.cfg.MaxFileSize = size * 1024 * 1024
	return b
}

// TimestampFormat sets the Go time layout of the line timestamp.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// UTC switches timestamps to UTC.
func (b *Builder) UTC(enable bool) *Builder {
	b.cfg.UTC = enable
	return b
}

// ConsoleLevel sets the minimum console level.
func (b *Builder) ConsoleLevel(level Level) *Builder {
	b.cfg.ConsoleLevel = level
	return b
}

// FileLevel sets the minimum file and sink level.
func (b *Builder) FileLevel(level Level) *Builder {
	b.cfg.FileLevel = level
	return b
}

// LevelString sets both minimum levels from a level name.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = wrapError(ErrConfig, err)
		return b
	}
	b.cfg.ConsoleLevel = levelVal
	b.cfg.FileLevel = levelVal
	return b
}

// CleanCategory enables clean mode for a category.
func (b *Builder) CleanCategory(category string, toFile bool) *Builder {
	b.cfg.CleanCategory = category
	b.cfg.CleanToFile = toFile
	return b
}

// ConsoleTarget selects "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// DisableConsole turns console output off.
func (b *Builder) DisableConsole(disable bool) *Builder {
	b.cfg.DisableConsole = disable
	return b
}

// ReportTimings prints flush and rotation timings to the console.
func (b *Builder) ReportTimings(enable bool) *Builder {
	b.cfg.ReportTimings = enable
	return b
}

// InternalErrorsToStderr mirrors reported failures to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// HeartbeatIntervalS sets the heartbeat period in seconds, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Sink sets the external record consumer.
func (b *Builder) Sink(sink SinkDelivery) *Builder {
	b.opts = append(b.opts, WithSink(sink))
	return b
}

// ErrorReporter sets the failure callback.
func (b *Builder) ErrorReporter(reporter ErrorReporter) *Builder {
	b.opts = append(b.opts, WithErrorReporter(reporter))
	return b
}

// Console replaces the console writer.
func (b *Builder) Console(w io.Writer) *Builder {
	b.opts = append(b.opts, WithConsole(w))
	return b
}

// ExitFunc replaces os.Exit for fatal records.
func (b *Builder) ExitFunc(exit func(code int)) *Builder {
	b.opts = append(b.opts, WithExitFunc(exit))
	return b
}

// Example usage:
// logger, err := clog.NewBuilder().
//
//	Directory("/var/log/app").
//	Name("app").
//	LevelString("info").
//	CleanCategory("CI", false).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("app", "Logger initialized successfully")
//
// }
