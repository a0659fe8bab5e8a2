package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector records handler invocations across goroutines.
type collector struct {
	mu    sync.Mutex
	paths []string
}

func (c *collector) handle(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatchDetectsWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "field_defs.py")
	require.NoError(t, os.WriteFile(file, []byte("# defs\n"), 0o644))

	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	c := &collector{}
	require.NoError(t, w.Watch([]string{file}, c.handle))

	require.NoError(t, os.WriteFile(file, []byte("# edited\n"), 0o644))
	assert.True(t, waitFor(t, func() bool { return c.count() >= 1 }))
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "fields.md")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("x"), 0o644))

	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	c := &collector{}
	require.NoError(t, w.Watch([]string{watched}, c.handle))

	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, c.count())
}

func TestWatchSurvivesFileReplacement(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "field_defs.py")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0o644))

	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	c := &collector{}
	require.NoError(t, w.Watch([]string{file}, c.handle))

	// Editor-style save: write a temp file and rename it over the target.
	tmp := filepath.Join(dir, ".field_defs.py.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, file))

	assert.True(t, waitFor(t, func() bool { return c.count() >= 1 }))
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
