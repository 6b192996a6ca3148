package clog

import (
	"fmt"
	"time"
)

// logHeartbeat queues a file-only statistics record in the internal category.
// It never reaches the console or the sink.
func (l *Logger) logHeartbeat() {
	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return
	}

	sequence := l.state.HeartbeatSequence.Add(1)
	stats := l.Stats()

	fileCount := -1
	if count, err := l.buffer.rotator.getLogFileCount(); err == nil {
		fileCount = count
	} else {
		l.dispatch.reportError(fmt.Sprintf("heartbeat failed to count log files: %v", err))
	}

	message := renderArgs([]any{
		"type", "proc",
		"sequence", sequence,
		"uptime_hours", fmt.Sprintf("%.2f", stats.Uptime.Hours()),
		"records", stats.Records,
		"flushes", stats.Flushes,
		"failed_flushes", stats.FailedFlushes,
		"rotations", stats.Rotations,
		"deletions", stats.Deletions,
		"log_file_count", fileCount,
		"pending_lines", stats.Pending,
		"buffer_high_water", stats.BufferHighWater,
		"flush_ema_ms", fmt.Sprintf("%.3f", stats.AverageFlushTime*1000),
		"rotation_ema_ms", fmt.Sprintf("%.3f", stats.AverageRotationTime*1000),
	})

	ts := time.Now()
	if l.cfg.UTC {
		ts = ts.UTC()
	}
	if !l.accept(l.formatter.format(ts, LevelInfo, internalCategory, message), false) {
		return
	}
	if l.buffer.timer == nil {
		l.buffer.flush(false)
	}
}
