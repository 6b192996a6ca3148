package clog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestRotator builds a rotator for "app" without the size clamp applied by New
func createTestRotator(t *testing.T, maxFiles int, maxSize int64) (*rotator, *recordingReporter, string) {
	t.Helper()
	dir := t.TempDir()
	reports := &recordingReporter{}
	r := &rotator{
		dir:          dir,
		name:         "app",
		maxFiles:     maxFiles,
		maxSize:      maxSize,
		rotationTime: NewEMA(rotationAlpha),
		state:        &State{},
		report:       reports.Report,
	}
	return r, reports, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

// listDir returns the sorted file names in a directory
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestSelectCreatesFirstFile(t *testing.T) {
	r, reports, dir := createTestRotator(t, 3, 10)

	name, ok := r.selectActiveFile("")
	require.True(t, ok)
	assert.Equal(t, "app_0.log", name)
	assert.Equal(t, []string{"app_0.log"}, listDir(t, dir))
	assert.Empty(t, reports.Messages())

	// First selection stays out of the average
	assert.Equal(t, 0.0, r.rotationTime.Value())
	_, ok = r.selectActiveFile(name)
	require.True(t, ok)
	assert.Greater(t, r.rotationTime.Value(), 0.0)
}

func TestSelectFastPath(t *testing.T) {
	r, _, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "short")
	writeFile(t, dir, "app_1.log", "older")

	name, ok := r.selectActiveFile("app_0.log")
	require.True(t, ok)
	assert.Equal(t, "app_0.log", name)
	assert.Equal(t, "short", readFile(t, dir, "app_0.log"))
	assert.Equal(t, uint64(0), r.state.TotalRotations.Load())
}

func TestSelectReusesUndersizedFile(t *testing.T) {
	r, _, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "short")

	// Full selection, as after a restart
	name, ok := r.selectActiveFile("")
	require.True(t, ok)
	assert.Equal(t, "app_0.log", name)
	assert.Equal(t, "short", readFile(t, dir, "app_0.log"))
}

// TestRotationShiftsFiles covers the full set with an oversized active file
func TestRotationShiftsFiles(t *testing.T) {
	r, reports, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "newest-oversized")
	writeFile(t, dir, "app_1.log", "middle")
	writeFile(t, dir, "app_2.log", "oldest")

	name, ok := r.selectActiveFile("app_0.log")
	require.True(t, ok)
	assert.Equal(t, "app_0.log", name)

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log"}, listDir(t, dir))
	assert.Equal(t, "", readFile(t, dir, "app_0.log"))
	assert.Equal(t, "newest-oversized", readFile(t, dir, "app_1.log"))
	assert.Equal(t, "middle", readFile(t, dir, "app_2.log"))
	assert.Empty(t, reports.Messages())
	assert.Equal(t, uint64(1), r.state.TotalDeletions.Load())
	assert.Equal(t, uint64(1), r.state.TotalRotations.Load())
}

func TestRotationTrimsExcessFiles(t *testing.T) {
	r, _, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "file 0 oversized")
	for i := 1; i < 6; i++ {
		writeFile(t, dir, fmt.Sprintf("app_%d.log", i), fmt.Sprintf("file %d", i))
	}

	_, ok := r.selectActiveFile("")
	require.True(t, ok)

	// Three highest deleted down to the limit, one more to make room
	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log"}, listDir(t, dir))
	assert.Equal(t, "", readFile(t, dir, "app_0.log"))
	assert.Equal(t, "file 0 oversized", readFile(t, dir, "app_1.log"))
	assert.Equal(t, "file 1", readFile(t, dir, "app_2.log"))
	assert.Equal(t, uint64(4), r.state.TotalDeletions.Load())
}

func TestRotationMissingSlotZero(t *testing.T) {
	r, _, dir := createTestRotator(t, 4, 10)
	writeFile(t, dir, "app_1.log", "one")
	writeFile(t, dir, "app_2.log", "two")

	_, ok := r.selectActiveFile("")
	require.True(t, ok)

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log"}, listDir(t, dir))
	assert.Equal(t, "one", readFile(t, dir, "app_1.log"))
	assert.Equal(t, "two", readFile(t, dir, "app_2.log"))
	assert.Empty(t, listTemp(t, dir))
}

// TestRotationCollision covers a gap in the set where a linear shift would overwrite a file
func TestRotationCollision(t *testing.T) {
	r, reports, dir := createTestRotator(t, 5, 10)
	writeFile(t, dir, "app_0.log", "zero-oversized")
	writeFile(t, dir, "app_2.log", "two")
	writeFile(t, dir, "app_3.log", "three")

	_, ok := r.selectActiveFile("app_0.log")
	require.True(t, ok)

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log", "app_3.log"}, listDir(t, dir))
	assert.Equal(t, "", readFile(t, dir, "app_0.log"))
	assert.Equal(t, "zero-oversized", readFile(t, dir, "app_1.log"))
	assert.Equal(t, "two", readFile(t, dir, "app_2.log"))
	assert.Equal(t, "three", readFile(t, dir, "app_3.log"))
	assert.Empty(t, reports.Messages())
}

func TestHasCollision(t *testing.T) {
	r, _, _ := createTestRotator(t, 5, 10)
	files := func(indexes ...uint64) []logFile {
		out := make([]logFile, 0, len(indexes))
		for _, i := range indexes {
			out = append(out, logFile{name: r.fileName(i), index: i})
		}
		return out
	}

	assert.False(t, r.hasCollision(files(0, 1, 2)))
	assert.False(t, r.hasCollision(files(0, 5)))
	assert.True(t, r.hasCollision(files(1, 2)), "name_<count> present")
	assert.True(t, r.hasCollision(files(0, 2, 3)))
	assert.False(t, r.hasCollision(files(1, 3)), "compacting never lands on an unmoved file")
}

func TestScanDeletesCorruptNames(t *testing.T) {
	r, reports, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "keep")
	writeFile(t, dir, "app_x.log", "corrupt")
	writeFile(t, dir, "app_-1.log", "negative")
	writeFile(t, dir, "app_.log", "empty index")
	writeFile(t, dir, "app_99999999999.log", "index overflow")
	writeFile(t, dir, "other_1.log", "foreign")
	writeFile(t, dir, "app_1.txt", "foreign extension")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app_7.log"), 0755))

	files, err := r.scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app_0.log", files[0].name)

	assert.Equal(t, []string{"app_0.log", "app_1.txt", "app_7.log", "other_1.log"}, listDir(t, dir))
	assert.Equal(t, uint64(4), r.state.TotalDeletions.Load())
	assert.Empty(t, reports.Messages())
}

// TestScanRenamesPaddedIndex verifies zero-padded names keep their content under the canonical name
func TestScanRenamesPaddedIndex(t *testing.T) {
	r, _, dir := createTestRotator(t, 5, 10)
	writeFile(t, dir, "app_0.log", "zero")
	writeFile(t, dir, "app_002.log", "two padded")
	writeFile(t, dir, "app_01.log", "one padded")
	writeFile(t, dir, "app_1.log", "one")

	files, err := r.scan()
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, uint64(2), files[2].index)
	assert.Equal(t, "app_2.log", files[2].name)

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log"}, listDir(t, dir))
	assert.Equal(t, "two padded", readFile(t, dir, "app_2.log"))
	// The canonical name was taken, the padded duplicate is dropped
	assert.Equal(t, "one", readFile(t, dir, "app_1.log"))
	assert.Equal(t, uint64(1), r.state.TotalDeletions.Load())
}

// TestScanRestoresParkedFiles verifies files left behind by an interrupted shift rejoin the set
func TestScanRestoresParkedFiles(t *testing.T) {
	r, _, dir := createTestRotator(t, 5, 10)
	writeFile(t, dir, "app_0.log", "zero")
	writeFile(t, dir, "app_2.log.temp", "parked two")
	writeFile(t, dir, "app_0.log.temp", "parked zero")
	writeFile(t, dir, "app_03.log.temp", "parked padded")

	files, err := r.scan()
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, []string{"app_0.log", "app_2.log", "app_3.log"}, listDir(t, dir))
	assert.Equal(t, "zero", readFile(t, dir, "app_0.log"))
	assert.Equal(t, "parked two", readFile(t, dir, "app_2.log"))
	assert.Equal(t, "parked padded", readFile(t, dir, "app_3.log"))
	assert.Empty(t, listTemp(t, dir))
	assert.Equal(t, uint64(1), r.state.TotalDeletions.Load())
}

func TestParkedFilesCountTowardsLimit(t *testing.T) {
	r, _, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "oversized zero")
	for i := 1; i < 6; i++ {
		writeFile(t, dir, fmt.Sprintf("app_%d.log.temp", i), fmt.Sprintf("parked %d", i))
	}

	_, ok := r.selectActiveFile("")
	require.True(t, ok)

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log"}, listDir(t, dir))
	assert.Equal(t, "oversized zero", readFile(t, dir, "app_1.log"))
	assert.Equal(t, "parked 1", readFile(t, dir, "app_2.log"))
}

func TestSelectWithoutDirectory(t *testing.T) {
	r, reports, _ := createTestRotator(t, 3, 10)
	r.dir = ""

	_, ok := r.selectActiveFile("")
	assert.False(t, ok)
	assert.Equal(t, []string{"log directory is not set"}, reports.Messages())
}

func TestSelectFailsWhenDirectoryRemoved(t *testing.T) {
	r, reports, dir := createTestRotator(t, 3, 10)
	_, ok := r.selectActiveFile("")
	require.True(t, ok)
	require.NoError(t, os.RemoveAll(dir))

	_, ok = r.selectActiveFile("app_0.log")
	assert.False(t, ok)
	messages := reports.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "scan error")
}

// TestRotationKeepsSlotZeroWhenShiftFails verifies the old file is appended to instead of truncated
func TestRotationKeepsSlotZeroWhenShiftFails(t *testing.T) {
	r, reports, dir := createTestRotator(t, 3, 10)
	writeFile(t, dir, "app_0.log", "oversized content")
	// A directory in the way of the shift cannot be removed or replaced by a rename
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app_1.log"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app_1.log", "blocker"), nil, 0644))

	name, ok := r.selectActiveFile("app_0.log")
	require.True(t, ok)
	assert.Equal(t, "app_0.log", name)
	assert.Equal(t, "oversized content", readFile(t, dir, "app_0.log"))

	messages := reports.Messages()
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[len(messages)-1], "could not be rotated")
	assert.Equal(t, uint64(0), r.state.TotalRotations.Load())
}

func TestFileCountNeverExceedsLimit(t *testing.T) {
	r, _, dir := createTestRotator(t, 4, 16)

	for cycle := 0; cycle < 25; cycle++ {
		name, ok := r.selectActiveFile("app_0.log")
		require.True(t, ok)
		_, err := writeLines(r.path(name), []string{fmt.Sprintf("cycle %02d padding", cycle)}, false)
		require.NoError(t, err)

		count, err := r.getLogFileCount()
		require.NoError(t, err)
		assert.LessOrEqual(t, count, 4, "cycle %d", cycle)
	}

	assert.Equal(t, []string{"app_0.log", "app_1.log", "app_2.log", "app_3.log"}, listDir(t, dir))
	assert.Equal(t, "cycle 24 padding\n", readFile(t, dir, "app_0.log"))
	assert.Equal(t, "cycle 21 padding\n", readFile(t, dir, "app_3.log"))
}

func TestEnsureDirectoryWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, ensureDirectoryWritable(dir))
	assert.Empty(t, listDir(t, dir))

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err := ensureDirectoryWritable(file)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "clog: "))
}

func listTemp(t *testing.T, dir string) []string {
	t.Helper()
	var temps []string
	for _, name := range listDir(t, dir) {
		if strings.HasSuffix(name, tempFileExt) {
			temps = append(temps, name)
		}
	}
	return temps
}
