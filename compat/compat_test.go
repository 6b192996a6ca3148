package compat

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/clog"
)

// createTestCompatBuilder creates an unbuffered logger so every record is on disk when the call returns
func createTestCompatBuilder(t *testing.T) (*Builder, *clog.Logger, string, *atomic.Int32) {
	t.Helper()
	tmpDir := t.TempDir()
	exitCode := &atomic.Int32{}
	exitCode.Store(-1)

	appLogger, err := clog.NewBuilder().
		Directory(tmpDir).
		Name("compat").
		FlushIntervalMs(0).
		DisableConsole(true).
		ExitFunc(func(code int) { exitCode.Store(int32(code)) }).
		Build()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, tmpDir, exitCode
}

// readLogLines returns the lines of the active log file
func readLogLines(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "compat_0.log"))
	require.NoError(t, err)
	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _, _ := createTestCompatBuilder(t)
		defer logger.Shutdown()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.NotNil(t, gnetAdapter)
		assert.Equal(t, logger, gnetAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		logCfg := clog.DefaultConfig()
		logCfg.Directory = t.TempDir()
		logCfg.DisableConsole = true

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger1, err := builder.GetLogger()
		require.NoError(t, err)
		defer logger1.Shutdown()

		// The created logger is cached
		hook, err := builder.BuildLogrusHook()
		require.NoError(t, err)
		assert.Equal(t, logger1, hook.logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		logCfg := clog.DefaultConfig()
		logCfg.TimestampFormat = ""
		_, err := NewBuilder().WithConfig(logCfg).BuildGnet()
		assert.ErrorIs(t, err, clog.ErrConfig)
	})
}

// TestGnetAdapter tests the gnet adapter's level mapping and line format
func TestGnetAdapter(t *testing.T) {
	builder, logger, tmpDir, exitCode := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildGnet()
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 5)

	expected := []string{
		"[DBG] [gnet] compat_test.go: TestGnetAdapter(): gnet debug id=1",
		"[INF] [gnet] gnet info id=2",
		"[WRN] [gnet] gnet warn id=3",
		"[CRT] [gnet] gnet error id=4",
		"[FTL] [gnet] gnet fatal id=5",
	}
	for i, line := range lines {
		assert.True(t, strings.HasSuffix(line, expected[i]), "line %d: %s", i, line)
	}
	assert.Equal(t, int32(1), exitCode.Load(), "fatal record should invoke the exit hook")
}

// TestGnetAdapterCategory tests the category option
func TestGnetAdapterCategory(t *testing.T) {
	builder, logger, tmpDir, _ := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildGnet(WithGnetCategory("net"))
	require.NoError(t, err)
	adapter.Infof("listening on %s", "tcp://:9000")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INF] [net] listening on tcp://:9000")
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output and level detection
func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, tmpDir, exitCode := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
		"fatal: connection reset",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 5)

	expectedTags := []string{"[INF]", "[DBG]", "[WRN]", "[CRT]", "[CRT]"}
	for i, line := range lines {
		assert.Contains(t, line, expectedTags[i]+" [fasthttp] ")
		assert.True(t, strings.HasSuffix(line, testMessages[i]), "line %d: %s", i, line)
	}
	assert.Equal(t, int32(-1), exitCode.Load(), "fasthttp messages must not terminate")
}

// TestFastHTTPAdapterOptions tests default level and custom detector
func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, logger, tmpDir, _ := createTestCompatBuilder(t)
	defer logger.Shutdown()

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(clog.LevelWarning),
		WithLevelDetector(func(string) (clog.Level, bool) { return 0, false }),
		WithFastHTTPCategory("http"),
	)
	require.NoError(t, err)

	adapter.Printf("an error that is not detected")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[WRN] [http] an error that is not detected")
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg   string
		level clog.Level
		found bool
	}{
		{"request failed", clog.LevelCritical, true},
		{"PANIC in handler", clog.LevelCritical, true},
		{"deprecated option", clog.LevelWarning, true},
		{"trace id 42", clog.LevelDebug, true},
		{"hello", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			level, found := DetectLogLevel(tt.msg)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.level, level)
			}
		})
	}
}

// TestLogrusHook tests routing of logrus entries, fields and caller information
func TestLogrusHook(t *testing.T) {
	builder, logger, tmpDir, exitCode := createTestCompatBuilder(t)
	defer logger.Shutdown()

	hook, err := builder.BuildLogrusHook()
	require.NoError(t, err)

	lr := logrus.New()
	lr.SetOutput(io.Discard)
	lr.SetLevel(logrus.TraceLevel)
	lr.ReportCaller = true
	lr.AddHook(hook)

	lr.WithField("category", "db").WithField("rows", 3).Info("query done")
	lr.Debug("cache miss")
	lr.WithField("err", io.EOF).Warn("read interrupted")
	lr.Error("disk full")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 4)

	assert.True(t, strings.HasSuffix(lines[0], "[INF] [db] query done rows=3"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "[DBG] [logrus] compat_test.go: TestLogrusHook(): cache miss"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "[WRN] [logrus] read interrupted err=EOF"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "[CRT] [logrus] disk full"), lines[3])
	assert.Equal(t, int32(-1), exitCode.Load())
}

// TestLogrusHookLevels tests the level restriction option
func TestLogrusHookLevels(t *testing.T) {
	builder, logger, tmpDir, _ := createTestCompatBuilder(t)
	defer logger.Shutdown()

	hook, err := builder.BuildLogrusHook(
		WithLogrusLevels(logrus.WarnLevel, logrus.ErrorLevel),
		WithLogrusCategory("legacy"),
	)
	require.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.WarnLevel, logrus.ErrorLevel}, hook.Levels())

	lr := logrus.New()
	lr.SetOutput(io.Discard)
	lr.AddHook(hook)

	lr.Info("not routed")
	lr.Warn("routed")

	lines := readLogLines(t, tmpDir)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[WRN] [legacy] routed")
}
