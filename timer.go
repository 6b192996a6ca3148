package clog

import (
	"sync"
	"time"
)

// flushTimer is a one-shot timer that the flush re-arms before doing its work,
// keeping a steady period even when a flush is slow
type flushTimer struct {
	mu       sync.Mutex
	interval time.Duration
	fire     func()
	timer    *time.Timer
	stopped  bool
}

// newFlushTimer creates an unarmed timer
func newFlushTimer(interval time.Duration, fire func()) *flushTimer {
	return &flushTimer{interval: interval, fire: fire}
}

// start arms the timer for the first period
func (t *flushTimer) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.interval, t.fire)
}

// reschedule restarts the period from now
func (t *flushTimer) reschedule() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.timer == nil {
		return
	}
	t.timer.Reset(t.interval)
}

// stop disarms the timer permanently
func (t *flushTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// setupHeartbeat starts the heartbeat ticker goroutine if enabled, returning its stop function
func (l *Logger) setupHeartbeat() func() {
	if l.cfg.HeartbeatIntervalS <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(time.Duration(l.cfg.HeartbeatIntervalS) * time.Second)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-ticker.C:
				l.logHeartbeat()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
			<-exited
		})
	}
}
