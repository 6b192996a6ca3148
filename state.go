package clog

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state and counters of the logger
type State struct {
	IsInitialized  atomic.Bool
	ShutdownCalled atomic.Bool

	TotalRecords   atomic.Uint64 // Records accepted for file output
	TotalFlushes   atomic.Uint64 // Flushes that wrote at least one line
	FailedFlushes  atomic.Uint64 // Flushes that had to put their lines back
	TotalRotations atomic.Uint64 // Fresh slot 0 files created
	TotalDeletions atomic.Uint64 // Log files removed by rotation or cleanup

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64
	LoggerStartTime   atomic.Value // stores time.Time
}

// Stats is a point-in-time snapshot of the logger diagnostics
type Stats struct {
	AverageFlushTime    float64 // seconds
	AverageRotationTime float64 // seconds
	BufferHighWater     int
	Pending             int
	Records             uint64
	Flushes             uint64
	FailedFlushes       uint64
	Rotations           uint64
	Deletions           uint64
	Uptime              time.Duration
}
