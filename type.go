package clog

import (
	"time"
)

// Record is a single log event handed to the logger.
// File and Function are only rendered for debug records.
type Record struct {
	Time     time.Time
	Level    Level
	Category string
	Message  string
	File     string
	Function string
}
