package clog

import (
	"sync"
	"time"
)

// SinkDelivery receives every record that passes the file filters
type SinkDelivery interface {
	Deliver(ts time.Time, level Level, category, message string)
}

// ErrorReporter receives descriptive messages about rotation and flush failures.
// Report runs while the log file is locked and must not log to the same Logger.
type ErrorReporter interface {
	Report(message string)
}

// SinkFunc adapts a function to SinkDelivery
type SinkFunc func(ts time.Time, level Level, category, message string)

// Deliver calls f
func (f SinkFunc) Deliver(ts time.Time, level Level, category, message string) {
	f(ts, level, category, message)
}

// ReporterFunc adapts a function to ErrorReporter
type ReporterFunc func(message string)

// Report calls f
func (f ReporterFunc) Report(message string) {
	f(message)
}

type nopSink struct{}

func (nopSink) Deliver(time.Time, Level, string, string) {}

type nopReporter struct{}

func (nopReporter) Report(string) {}

// dispatcher serializes calls into the external sink and the error reporter.
// The two use separate locks so a slow sink never delays error reporting.
type dispatcher struct {
	sinkMu   sync.Mutex
	sink     SinkDelivery
	reportMu sync.Mutex
	reporter ErrorReporter
	// Mirrors reports to stderr when set
	mirror func(message string)
}

func newDispatcher(sink SinkDelivery, reporter ErrorReporter) *dispatcher {
	if sink == nil {
		sink = nopSink{}
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &dispatcher{sink: sink, reporter: reporter}
}

// deliver forwards a record to the external sink
func (d *dispatcher) deliver(ts time.Time, level Level, category, message string) {
	d.sinkMu.Lock()
	defer d.sinkMu.Unlock()
	d.sink.Deliver(ts, level, category, message)
}

// reportError forwards a failure description to the error reporter
func (d *dispatcher) reportError(message string) {
	if d.mirror != nil {
		d.mirror(message)
	}
	d.reportMu.Lock()
	defer d.reportMu.Unlock()
	d.reporter.Report(message)
}
