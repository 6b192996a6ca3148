package clog

import (
	"time"
)

// levelRank orders levels independently of their numeric values
var levelRank = map[Level]int{
	LevelDebug:    0,
	LevelInfo:     1,
	LevelWarning:  2,
	LevelCritical: 3,
	LevelFatal:    4,
}

// rank returns the position of a level in the severity order, -1 for unknown levels
func rank(level Level) int {
	if r, ok := levelRank[level]; ok {
		return r
	}
	return -1
}

// atLeast reports whether level passes a minimum level filter
func atLeast(level, minimum Level) bool {
	return rank(level) >= rank(minimum)
}

// Handle classifies a record and routes it to the console, the log file and the sink.
// A zero Time is stamped with the current time.
// A fatal record is flushed to disk and then ends the process through the exit hook.
func (l *Logger) Handle(r Record) {
	if !l.state.IsInitialized.Load() {
		return
	}
	if rank(r.Level) < 0 {
		return
	}
	if r.Level == LevelDebug && !debugBuild {
		return
	}

	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	if l.cfg.UTC {
		r.Time = r.Time.UTC()
	}

	message := r.Message
	if r.Level == LevelDebug {
		message = debugMessage(r.File, r.Function, r.Message)
	}
	line := l.formatter.format(r.Time, r.Level, r.Category, message)

	cleanMode := l.cfg.CleanCategory != ""
	inClean := cleanMode && r.Category == l.cfg.CleanCategory
	// Clean category output stays off disk and away from the sink when asked to
	persistable := !inClean || l.cfg.CleanToFile

	if r.Level == LevelFatal {
		l.handleFatal(r, line, cleanMode, persistable)
		return
	}

	switch {
	case inClean:
		l.writeConsole(r.Message)
	case !cleanMode && atLeast(r.Level, l.cfg.ConsoleLevel):
		l.writeConsole(line)
	}

	if !persistable || !atLeast(r.Level, l.cfg.FileLevel) {
		return
	}

	if !l.accept(line, true) {
		return
	}
	switch {
	case r.Level == LevelCritical:
		l.buffer.flush(true)
	case l.buffer.timer == nil:
		l.buffer.flush(false)
	}

	l.dispatch.deliver(r.Time, r.Level, r.Category, message)
}

// handleFatal persists a fatal record ahead of everything else and terminates
func (l *Logger) handleFatal(r Record, line string, cleanMode, persistable bool) {
	if persistable && l.accept(line, true) {
		l.buffer.flush(true)
		l.dispatch.deliver(r.Time, r.Level, r.Category, r.Message)
	}

	if cleanMode {
		l.writeConsole("[FTL] " + r.Message)
	} else {
		l.writeConsole(line)
	}

	l.exit(1)
}

// log builds a record at the producer call site.
// Must be called directly from the exported producer method.
func (l *Logger) log(level Level, category string, message string) {
	if !l.state.IsInitialized.Load() {
		return
	}
	r := Record{
		Time:     time.Now(),
		Level:    level,
		Category: category,
		Message:  message,
	}
	if level == LevelDebug {
		// callerLocation -> log -> exported method -> producer
		r.File, r.Function = callerLocation(2)
	}
	l.Handle(r)
}
