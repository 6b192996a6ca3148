package clog

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// dumper renders composite message arguments in a compact, deterministic form
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// lineFormatter builds the persisted line of a record
type lineFormatter struct {
	timestampFormat string
}

// format returns "[timestamp] [TAG] [category] message"
func (f *lineFormatter) format(ts time.Time, level Level, category, message string) string {
	buf := make([]byte, 0, len(f.timestampFormat)+len(category)+len(message)+16)
	buf = append(buf, '[')
	buf = ts.AppendFormat(buf, f.timestampFormat)
	buf = append(buf, "] ["...)
	buf = append(buf, level.Tag()...)
	buf = append(buf, "] ["...)
	buf = append(buf, category...)
	buf = append(buf, "] "...)
	buf = append(buf, message...)
	return string(buf)
}

// debugMessage prepends the simplified source location to a debug message
func debugMessage(file, function, message string) string {
	if file == "" && function == "" {
		return message
	}
	return file + ": " + function + ": " + message
}

// renderArgs joins message arguments with single spaces.
func renderArgs(args []any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	buf := make([]byte, 0, 64)
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// appendValue converts any value to its text representation.
// Types without a natural text form fall back to go-spew.
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339Nano)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case []byte:
		return hex.AppendEncode(buf, val)
	default:
		var b bytes.Buffer
		dumper.Fdump(&b, val)
		return append(buf, bytes.TrimSpace(b.Bytes())...)
	}
}

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelCritical:
		return "CRITICAL"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int64(l))
	}
}

// Tag returns the three letter marker used in persisted lines
func (l Level) Tag() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarning:
		return "WRN"
	case LevelCritical:
		return "CRT"
	case LevelFatal:
		return "FTL"
	default:
		return "???"
	}
}

// validateTimestampFormat accepts a layout only if its output parses back with the same layout
func validateTimestampFormat(layout string) error {
	if layout == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}
	// Differs from the reference time in every field
	sample := time.Date(2019, time.November, 28, 21, 37, 48, 123456789, time.UTC)
	rendered := sample.Format(layout)
	if rendered == layout {
		return fmtErrorf("timestamp_format '%s' contains no time elements", layout)
	}
	if _, err := time.Parse(layout, rendered); err != nil {
		return fmtErrorf("timestamp_format '%s' does not round-trip: %w", layout, err)
	}
	return nil
}
