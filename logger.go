package clog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is the core struct that encapsulates all logger functionality.
// Create it once with New and share it between producers.
type Logger struct {
	cfg       *Config
	state     State
	metrics   *metrics
	formatter *lineFormatter
	buffer    *flushBuffer
	dispatch  *dispatcher

	consoleMu sync.Mutex
	console   io.Writer

	// Held shared while a line is accepted, exclusively while Shutdown closes intake
	lifecycleMu sync.RWMutex

	exit          func(code int)
	stopHeartbeat func()
}

// Option customizes a Logger at construction time
type Option func(*Logger)

// WithSink sets the consumer receiving every record that passes the file filters
func WithSink(sink SinkDelivery) Option {
	return func(l *Logger) {
		if sink != nil {
			l.dispatch.sink = sink
		}
	}
}

// WithErrorReporter sets the callback receiving rotation and flush failures
func WithErrorReporter(reporter ErrorReporter) Option {
	return func(l *Logger) {
		if reporter != nil {
			l.dispatch.reporter = reporter
		}
	}
}

// WithConsole replaces the console writer selected by console_target
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil && !l.cfg.DisableConsole {
			l.console = w
		}
	}
}

// WithExitFunc replaces os.Exit as the action taken after a fatal record
func WithExitFunc(exit func(code int)) Option {
	return func(l *Logger) {
		if exit != nil {
			l.exit = exit
		}
	}
}

// New creates a ready-to-use Logger.
// Configuration problems are reported as ErrConfig, an unusable log directory as ErrDirectory.
func New(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	if err := cfg.validate(); err != nil {
		return nil, wrapError(ErrConfig, err)
	}
	cfg.normalize()

	l := &Logger{
		cfg:       cfg,
		metrics:   newMetrics(),
		formatter: &lineFormatter{timestampFormat: cfg.TimestampFormat},
		dispatch:  newDispatcher(nil, nil),
		exit:      os.Exit,
	}

	switch {
	case cfg.DisableConsole:
		l.console = io.Discard
	case cfg.ConsoleTarget == "stderr":
		l.console = os.Stderr
	default:
		l.console = os.Stdout
	}

	for _, opt := range opts {
		opt(l)
	}

	if cfg.InternalErrorsToStderr {
		l.dispatch.mirror = l.internalLog
	}

	if err := ensureDirectoryWritable(cfg.Directory); err != nil {
		return nil, wrapError(ErrDirectory, err)
	}

	rot := &rotator{
		dir:          cfg.Directory,
		name:         cfg.Name,
		maxFiles:     int(cfg.MaxFiles),
		maxSize:      cfg.MaxFileSize,
		rotationTime: l.metrics.rotation,
		state:        &l.state,
		report:       l.dispatch.reportError,
		timings:      l.timingPrinter("Log file selection took"),
	}

	l.buffer = &flushBuffer{
		rotator:   rot,
		flushTime: l.metrics.flush,
		state:     &l.state,
		report:    l.dispatch.reportError,
		timings:   l.timingPrinter("Log buffer flushed in"),
	}

	// Initial selection, also prepares slot 0 for the first flush
	l.buffer.fileMu.Lock()
	active, ok := rot.selectActiveFile("")
	l.buffer.active = active
	l.buffer.fileMu.Unlock()
	if !ok {
		return nil, wrapError(ErrDirectory, fmtErrorf("failed to create log file in '%s'", cfg.Directory))
	}

	l.state.LoggerStartTime.Store(time.Now())
	l.state.IsInitialized.Store(true)

	if cfg.Buffered() {
		l.buffer.timer = newFlushTimer(time.Duration(cfg.FlushIntervalMs)*time.Millisecond, func() {
			l.buffer.flush(false)
		})
		l.buffer.timer.start()
	}

	l.stopHeartbeat = l.setupHeartbeat()

	return l, nil
}

// Shutdown stops the flush timer and the heartbeat, then force-flushes the queue.
// Lines that still cannot be written are reported and returned as an error.
// Records handed to the logger afterwards are ignored.
func (l *Logger) Shutdown() error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.stopHeartbeat()
	if l.buffer.timer != nil {
		l.buffer.timer.stop()
	}

	// Waits for producers between their check and their enqueue
	l.lifecycleMu.Lock()
	l.state.IsInitialized.Store(false)
	l.lifecycleMu.Unlock()

	l.buffer.flush(true)

	if pending := l.buffer.pending(); pending > 0 {
		msg := fmt.Sprintf("%d log lines could not be written before shutdown", pending)
		l.dispatch.reportError(msg)
		return fmtErrorf("%s", msg)
	}
	return nil
}

// accept queues a formatted line unless shutdown has closed intake.
// Every accepted line is covered by the final flush of Shutdown.
func (l *Logger) accept(line string, counted bool) bool {
	l.lifecycleMu.RLock()
	defer l.lifecycleMu.RUnlock()
	if !l.state.IsInitialized.Load() {
		return false
	}
	if counted {
		l.state.TotalRecords.Add(1)
	}
	l.buffer.enqueue(line)
	return true
}

// Flush writes all queued lines to the active log file
func (l *Logger) Flush() {
	l.buffer.flush(false)
}

// Sync writes all queued lines and forces them to disk
func (l *Logger) Sync() {
	l.buffer.flush(true)
}

// AverageFlushTime returns the smoothed duration of a flush in seconds
func (l *Logger) AverageFlushTime() float64 {
	return l.metrics.flush.Value()
}

// AverageRotationTime returns the smoothed duration of an active file selection in seconds
func (l *Logger) AverageRotationTime() float64 {
	return l.metrics.rotation.Value()
}

// BufferHighWater returns the largest number of lines a buffered flush had to write
func (l *Logger) BufferHighWater() int {
	return l.buffer.maxQueued()
}

// Pending returns the number of lines waiting for the next flush
func (l *Logger) Pending() int {
	return l.buffer.pending()
}

// Config returns a copy of the effective configuration, environment defaults applied
func (l *Logger) Config() *Config {
	return l.cfg.Clone()
}

// Stats returns a snapshot of the logger diagnostics
func (l *Logger) Stats() Stats {
	stats := Stats{
		AverageFlushTime:    l.AverageFlushTime(),
		AverageRotationTime: l.AverageRotationTime(),
		BufferHighWater:     l.BufferHighWater(),
		Pending:             l.Pending(),
		Records:             l.state.TotalRecords.Load(),
		Flushes:             l.state.TotalFlushes.Load(),
		FailedFlushes:       l.state.FailedFlushes.Load(),
		Rotations:           l.state.TotalRotations.Load(),
		Deletions:           l.state.TotalDeletions.Load(),
	}
	if start, ok := l.state.LoggerStartTime.Load().(time.Time); ok {
		stats.Uptime = time.Since(start)
	}
	return stats
}

// timingPrinter returns the console diagnostics callback for a timed operation,
// or nil when timings are not shown
func (l *Logger) timingPrinter(what string) func(elapsed, average float64) {
	c := l.cfg
	if !c.ReportTimings || c.DisableConsole || c.CleanCategory != "" || c.ConsoleLevel != LevelDebug {
		return nil
	}
	return func(elapsed, average float64) {
		l.writeConsole(fmt.Sprintf("--- %s %.3f ms (EMA: %.3f ms)", what, elapsed*1000, average*1000))
	}
}

// writeConsole prints one line to the console writer
func (l *Logger) writeConsole(line string) {
	l.consoleMu.Lock()
	_, _ = io.WriteString(l.console, line+"\n")
	l.consoleMu.Unlock()
}

// internalLog mirrors internal failures to stderr
func (l *Logger) internalLog(message string) {
	fmt.Fprintf(os.Stderr, "clog: %s\n", message)
}
