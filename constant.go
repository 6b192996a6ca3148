package clog

import (
	"time"
)

// Level is the severity of a record.
// Ordering is defined by rank, not by the numeric value.
type Level int64

// Log level constants
const (
	LevelDebug    Level = -4
	LevelInfo     Level = 0
	LevelWarning  Level = 4
	LevelCritical Level = 8
	LevelFatal    Level = 12
)

// Rotation limits
const (
	// Smallest number of files a rotation set can hold
	minMaxFiles = 2
	// Smallest size limit of a single log file
	minMaxFileSize int64 = 100 * 1024
	// File extension of every file in a rotation set
	logFileExt = ".log"
	// Suffix used to park files while resolving name collisions
	tempFileExt = ".temp"
	// Temporary file used to check directory writability
	writeCheckFileName = "test.tmp"
)

// Buffering
const (
	// Flush intervals below this value disable buffering
	minFlushInterval = 1000 * time.Millisecond
	// Category used for records produced by the logger itself
	internalCategory = "clog"
)

// EMA smoothing factors
const (
	flushAlpha    = 0.1
	rotationAlpha = 0.2
)
