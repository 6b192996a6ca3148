package clog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// logFile is one member of the rotation set found on disk
type logFile struct {
	name  string
	index uint64
	size  int64
}

// rotator selects the active log file and keeps the rotation set within its limits.
// All methods must be called with the file access lock held.
type rotator struct {
	dir      string
	name     string
	maxFiles int
	maxSize  int64

	rotationTime *EMA
	state        *State
	report       func(message string)
	timings      func(elapsed, average float64) // nil unless timing diagnostics are enabled

	started bool // first selection is not representative and stays out of the average
}

// fileName returns the rotation set member name for an index, slot 0 being the active file
func (r *rotator) fileName(index uint64) string {
	return r.name + "_" + strconv.FormatUint(index, 10) + logFileExt
}

// path returns the full path of a file in the log directory
func (r *rotator) path(name string) string {
	return filepath.Join(r.dir, name)
}

// selectActiveFile returns the file that receives the next batch of writes.
// current is the previously selected name, or empty when a full selection is needed.
func (r *rotator) selectActiveFile(current string) (string, bool) {
	if r.dir == "" {
		r.report("log directory is not set")
		return "", false
	}

	start := time.Now()
	slot0 := r.fileName(0)

	if current != "" {
		if current != slot0 {
			current = ""
		} else if info, err := os.Stat(r.path(slot0)); err != nil || info.Size() >= r.maxSize {
			current = ""
		}
	}

	if current == "" && !r.rotate() {
		return "", false
	}

	r.recordTiming(time.Since(start))
	return slot0, true
}

// rotate enforces the file count limit and provides a writable slot 0, shifting older files up when needed
func (r *rotator) rotate() bool {
	files, err := r.scan()
	if err != nil {
		r.report(fmt.Sprintf("log directory %q scan error: %v", r.dir, err))
		return false
	}

	for len(files) > r.maxFiles {
		files = r.dropLast(files)
	}

	if len(files) > 0 && files[0].index == 0 && files[0].size < r.maxSize {
		return true
	}

	// Leave room for the new slot 0
	if len(files) >= r.maxFiles {
		files = r.dropLast(files)
	}

	slot0Kept := r.shift(files)
	return r.touch(slot0Kept)
}

// scan lists rotation set members sorted by index.
// Parked .temp files are restored first. A parsable but non-canonical index is renamed
// to its canonical name when that is free; anything else with a malformed index is removed.
func (r *rotator) scan() ([]logFile, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	if r.restoreParked(entries) {
		if entries, err = os.ReadDir(r.dir); err != nil {
			return nil, err
		}
	}

	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		postfix, ok := r.postfix(name, logFileExt)
		if !ok {
			continue
		}

		index, errParse := strconv.ParseUint(postfix, 10, 32)
		if errParse != nil {
			r.remove(name, "unknown log file")
			continue
		}
		if canonical := r.fileName(index); canonical != name {
			if !r.adopt(name, canonical) {
				continue
			}
			name = canonical
		}

		info, errInfo := os.Stat(r.path(name))
		if errInfo != nil {
			continue // Removed concurrently
		}
		files = append(files, logFile{name: name, index: index, size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })
	return files, nil
}

// postfix returns the index part of a rotation set name ending in ext
func (r *rotator) postfix(name, ext string) (string, bool) {
	prefix := r.name + "_"
	if len(name) < len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return "", false
	}
	return name[len(prefix) : len(name)-len(ext)], true
}

// restoreParked moves files left as <name>.temp by an interrupted shift back into the set.
// A parked file whose original name is taken again is removed. Returns true if anything changed.
func (r *rotator) restoreParked(entries []os.DirEntry) bool {
	changed := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parked := entry.Name()
		if _, ok := r.postfix(parked, logFileExt+tempFileExt); !ok {
			continue
		}
		original := strings.TrimSuffix(parked, tempFileExt)
		if r.adopt(parked, original) {
			changed = true
		}
	}
	return changed
}

// adopt renames src to dst if dst is free, otherwise removes src.
// Returns true if src now lives under dst.
func (r *rotator) adopt(src, dst string) bool {
	if _, err := os.Lstat(r.path(dst)); err == nil {
		r.remove(src, "duplicate log file")
		return false
	}
	if err := os.Rename(r.path(src), r.path(dst)); err != nil {
		r.report(fmt.Sprintf("log file %q renaming error: %v", src, err))
		return false
	}
	return true
}

// remove deletes a file outside the rotation set, reporting failures with the given description
func (r *rotator) remove(name, what string) {
	if err := os.Remove(r.path(name)); err != nil {
		r.report(fmt.Sprintf("%s %q deletion error: %v", what, name, err))
		return
	}
	r.state.TotalDeletions.Add(1)
}

// dropLast deletes the oldest file of the set; it leaves the list even if deletion fails
func (r *rotator) dropLast(files []logFile) []logFile {
	last := files[len(files)-1]
	if err := os.Remove(r.path(last.name)); err != nil {
		r.report(fmt.Sprintf("log file %q deletion error: %v", last.name, err))
	} else {
		r.state.TotalDeletions.Add(1)
	}
	return files[:len(files)-1]
}

// hasCollision reports whether a linear shift could land on a file that has not been moved yet
func (r *rotator) hasCollision(files []logFile) bool {
	last := r.fileName(uint64(len(files)))
	held := make(map[string]int, len(files))
	for i, f := range files {
		if f.name == last {
			return true
		}
		held[f.name] = i
	}
	for i := range files {
		if j, ok := held[r.fileName(uint64(i)+1)]; ok && j < i {
			return true
		}
	}
	return false
}

// shift renames file i to index i+1, highest first. Failures are reported and skipped.
// Returns true if slot 0 is still occupied afterwards.
func (r *rotator) shift(files []logFile) bool {
	if r.hasCollision(files) {
		for i := range files {
			tmp := files[i].name + tempFileExt
			if err := os.Rename(r.path(files[i].name), r.path(tmp)); err != nil {
				r.report(fmt.Sprintf("log file %q renaming error: %v", files[i].name, err))
				continue
			}
			files[i].name = tmp
		}
	}

	for i := len(files) - 1; i >= 0; i-- {
		dst := r.fileName(uint64(i) + 1)
		if files[i].name == dst {
			continue
		}
		// Never overwrite, a stale file there would be lost
		if _, err := os.Lstat(r.path(dst)); err == nil {
			r.report(fmt.Sprintf("log file %q renaming error: %q already exists", files[i].name, dst))
			continue
		}
		if err := os.Rename(r.path(files[i].name), r.path(dst)); err != nil {
			r.report(fmt.Sprintf("log file %q renaming error: %v", files[i].name, err))
			continue
		}
		files[i].name = dst
	}

	slot0 := r.fileName(0)
	for _, f := range files {
		if f.name == slot0 {
			return true
		}
	}
	return false
}

// touch creates an empty slot 0, or reopens the old one when it could not be shifted away
func (r *rotator) touch(keep bool) bool {
	name := r.fileName(0)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if keep {
		r.report(fmt.Sprintf("log file %q could not be rotated, writing continues in it", name))
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	file, err := os.OpenFile(r.path(name), flags, 0644)
	if err != nil {
		r.report(fmt.Sprintf("log file %q creation error: %v", name, err))
		return false
	}
	_ = file.Close()

	if !keep {
		r.state.TotalRotations.Add(1)
	}
	return true
}

// recordTiming feeds the selection time into the rotation average
func (r *rotator) recordTiming(elapsed time.Duration) {
	if !r.started {
		r.started = true
		return
	}
	avg := r.rotationTime.Add(elapsed.Seconds())
	if r.timings != nil {
		r.timings(elapsed.Seconds(), avg)
	}
}

// ensureDirectoryWritable creates the directory if needed and checks it with a temporary file
func ensureDirectoryWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmtErrorf("failed to stat log directory '%s': %w", dir, err)
	}
	if !info.IsDir() {
		return fmtErrorf("log path '%s' is not a directory", dir)
	}

	checkFile := filepath.Join(dir, writeCheckFileName)
	if err := os.Remove(checkFile); err != nil && !os.IsNotExist(err) {
		return fmtErrorf("failed to remove stale write check file '%s': %w", checkFile, err)
	}
	file, err := os.OpenFile(checkFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmtErrorf("log directory '%s' is not writable: %w", dir, err)
	}
	_ = file.Close()
	if err := os.Remove(checkFile); err != nil {
		return fmtErrorf("failed to remove write check file '%s': %w", checkFile, err)
	}
	return nil
}

// getLogFileCount returns the number of rotation set members in the directory
func (r *rotator) getLogFileCount() (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return -1, fmtErrorf("failed to read log directory '%s': %w", r.dir, err)
	}

	prefix := r.name + "_"
	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, logFileExt) {
			count++
		}
	}
	return count, nil
}
