package clog

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// flushBuffer owns the shared line queue and writes it to the active log file.
// The queue lock only covers append and swap; file I/O runs under the separate file lock.
type flushBuffer struct {
	queueMu   sync.Mutex
	queue     []string
	highWater int // Largest queue length seen by a flush, diagnostic only

	fileMu  sync.Mutex
	rotator *rotator
	active  string // Current file name, empty when a full selection is needed

	flushTime *EMA
	state     *State
	report    func(message string)
	timings   func(elapsed, average float64)
	timer     *flushTimer // nil when buffering is disabled
}

// enqueue appends a formatted line, never blocking on file I/O
func (b *flushBuffer) enqueue(line string) {
	b.queueMu.Lock()
	b.queue = append(b.queue, line)
	b.queueMu.Unlock()
}

// pending returns the number of queued lines
func (b *flushBuffer) pending() int {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	return len(b.queue)
}

// maxQueued returns the high-water mark of the queue
func (b *flushBuffer) maxQueued() int {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	return b.highWater
}

// flush writes every queued line to the active file.
// On failure the lines go back in front of the queue, nothing is dropped.
// The file lock is taken before the queue swap: a flush that starts while another is
// writing (timer, critical record or Shutdown) waits on the file lock and swaps afterwards.
// enqueue only ever waits on the queue lock, held just for the append and the swap.
func (b *flushBuffer) flush(force bool) {
	// Re-arm first so a slow flush does not stretch the period
	if b.timer != nil {
		b.timer.reschedule()
	}

	b.fileMu.Lock()
	defer b.fileMu.Unlock()

	b.queueMu.Lock()
	if len(b.queue) == 0 {
		b.queueMu.Unlock()
		return
	}
	if b.timer != nil && len(b.queue) > b.highWater {
		b.highWater = len(b.queue)
	}
	work := b.queue
	b.queue = make([]string, 0, len(work))
	b.queueMu.Unlock()

	name, ok := b.rotator.selectActiveFile(b.active)
	if !ok {
		b.active = ""
		b.state.FailedFlushes.Add(1)
		b.requeue(work)
		return
	}
	b.active = name

	start := time.Now()
	written, err := writeLines(b.rotator.path(name), work, force)
	elapsed := time.Since(start)

	if err != nil {
		b.report(err.Error())
	}
	if written < len(work) {
		b.state.FailedFlushes.Add(1)
		b.requeue(work[written:])
		if written == 0 {
			return
		}
	}

	b.state.TotalFlushes.Add(1)
	avg := b.flushTime.Add(elapsed.Seconds())
	if b.timings != nil {
		b.timings(elapsed.Seconds(), avg)
	}
}

// requeue puts lines back in front of whatever was queued meanwhile
func (b *flushBuffer) requeue(lines []string) {
	b.queueMu.Lock()
	merged := make([]string, 0, len(lines)+len(b.queue))
	merged = append(merged, lines...)
	merged = append(merged, b.queue...)
	b.queue = merged
	b.queueMu.Unlock()
}

// writeLines appends newline terminated lines to a file and returns how many were fully written.
// A failed sync or close is reported but does not un-write the lines.
func writeLines(path string, lines []string, force bool) (int, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("log file '%s' open error: %w", path, err)
	}

	size := 0
	for _, line := range lines {
		size += len(line) + 1
	}
	data := make([]byte, 0, size)
	ends := make([]int, len(lines))
	for i, line := range lines {
		data = append(data, line...)
		data = append(data, '\n')
		ends[i] = len(data)
	}

	n, err := file.Write(data)
	if err != nil {
		_ = file.Close()
		// A line cut short is written again in full on the next attempt
		written := sort.Search(len(ends), func(i int) bool { return ends[i] > n })
		return written, fmt.Errorf("log file '%s' write error: %w", path, err)
	}

	var finalErr error
	if force {
		if err := file.Sync(); err != nil {
			finalErr = fmt.Errorf("log file '%s' sync error: %w", path, err)
		}
	}
	if err := file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmt.Errorf("log file '%s' close error: %w", path, err))
	}
	return len(lines), finalErr
}
