package compat

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/clog"
)

var _ logrus.Hook = (*LogrusHook)(nil)

// CategoryField is the logrus field read as the record category
const CategoryField = "category"

// LogrusHook routes logrus entries into a clog.Logger.
// Entry fields other than the category are appended to the message as key=value pairs.
type LogrusHook struct {
	logger   *clog.Logger
	category string
	levels   []logrus.Level
}

// LogrusOption allows customizing hook behavior
type LogrusOption func(*LogrusHook)

// WithLogrusCategory sets the category used when an entry carries none
func WithLogrusCategory(category string) LogrusOption {
	return func(h *LogrusHook) {
		h.category = category
	}
}

// WithLogrusLevels restricts the logrus levels the hook fires for
func WithLogrusLevels(levels ...logrus.Level) LogrusOption {
	return func(h *LogrusHook) {
		h.levels = levels
	}
}

// NewLogrusHook creates a hook firing for all logrus levels
func NewLogrusHook(logger *clog.Logger, opts ...LogrusOption) *LogrusHook {
	hook := &LogrusHook{
		logger:   logger,
		category: "logrus",
		levels:   logrus.AllLevels,
	}

	for _, opt := range opts {
		opt(hook)
	}

	return hook
}

// Levels implements logrus.Hook
func (h *LogrusHook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook
func (h *LogrusHook) Fire(entry *logrus.Entry) error {
	record := clog.Record{
		Time:     entry.Time,
		Level:    logrusLevel(entry.Level),
		Category: h.category,
		Message:  entry.Message,
	}

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key == CategoryField {
			if category, ok := entry.Data[key].(string); ok {
				record.Category = category
				continue
			}
		}
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteString(entry.Message)
		for _, key := range keys {
			sb.WriteString(" " + key + "=" + fieldString(entry.Data[key]))
		}
		record.Message = sb.String()
	}

	// Caller is only set when the logrus logger has ReportCaller enabled
	if entry.Caller != nil {
		record.File = filepath.Base(entry.Caller.File)
		record.Function = shortFunction(entry.Caller.Function)
	}

	h.logger.Handle(record)
	return nil
}

// logrusLevel maps logrus levels onto clog levels.
// Fatal and panic entries stay below clog fatal since logrus terminates on its own.
func logrusLevel(level logrus.Level) clog.Level {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return clog.LevelDebug
	case logrus.InfoLevel:
		return clog.LevelInfo
	case logrus.WarnLevel:
		return clog.LevelWarning
	default:
		return clog.LevelCritical
	}
}

func fieldString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}

// shortFunction trims the import path from a runtime function name
func shortFunction(name string) string {
	name = filepath.Base(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name + "()"
}
