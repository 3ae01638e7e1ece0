package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, root, patterns string) *Classifier {
	t.Helper()
	oracle := newTestOracle(t, root, patterns)
	watched, err := NewWatchPath(root)
	require.NoError(t, err)
	filter, err := NewPathFilter([]WatchPath{watched}, nil, oracle)
	require.NoError(t, err)
	return NewClassifier(filter)
}

func event(path string, kind EventKind) RawEvent {
	return RawEvent{Path: path, Kind: kind, Time: time.Now()}
}

func TestClassifyContentChange(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "")
	path := filepath.Join(root, "main.go")

	change, ok := c.Classify(event(path, KindModified))
	require.True(t, ok)
	assert.Equal(t, path, change.Path)
	assert.Equal(t, KindModified, change.Kind)
}

func TestClassifyMetadataOnlySuppressed(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "")
	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main"), 0644))

	_, ok := c.Classify(event(path, KindMetadataOnly))
	assert.False(t, ok, "a permission change never produces a content change")
}

func TestClassifyIgnoredPathDropped(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "*.log\n")

	_, ok := c.Classify(event(filepath.Join(root, "noise.log"), KindModified))
	assert.False(t, ok)
}

func TestClassifyOutsideRootDropped(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "")

	_, ok := c.Classify(event("/elsewhere/main.go", KindModified))
	assert.False(t, ok)
}

func TestClassifyRepeatedModifyQualifiesEachTime(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "")
	path := filepath.Join(root, "main.go")

	_, ok := c.Classify(event(path, KindModified))
	require.True(t, ok)

	// A second save of the same file is a new qualifying change: it has to
	// reach the debouncer so the quiet window keeps extending.
	_, ok = c.Classify(event(path, KindModified))
	assert.True(t, ok, "every save extends the quiet window, even on one file")

	c.Reset()
	_, ok = c.Classify(event(path, KindModified))
	assert.True(t, ok)
}

func TestClassifyCoalescesRemovalCascade(t *testing.T) {
	root := t.TempDir()
	c := newTestClassifier(t, root, "")
	dir := filepath.Join(root, "pkg")

	_, ok := c.Classify(event(dir, KindRemoved))
	require.True(t, ok, "the directory removal itself qualifies")

	_, ok = c.Classify(event(filepath.Join(dir, "a.go"), KindRemoved))
	assert.False(t, ok, "descendant removals coalesce into the directory removal")

	_, ok = c.Classify(event(filepath.Join(dir, "sub", "b.go"), KindRemoved))
	assert.False(t, ok)

	// A sibling removal is its own change.
	_, ok = c.Classify(event(filepath.Join(root, "other.go"), KindRemoved))
	assert.True(t, ok)
}

func TestClassifyCreateQualifies(t *testing.T) {
	root := t.TempDir()
	// A transient-file pattern ignoring editor temp files must not hide the
	// final rename target of an atomic save.
	c := newTestClassifier(t, root, "*.tmp\n")

	_, ok := c.Classify(event(filepath.Join(root, ".main.go.tmp"), KindCreated))
	assert.False(t, ok, "the intermediate temp file is ignored")

	_, ok = c.Classify(event(filepath.Join(root, "main.go"), KindCreated))
	assert.True(t, ok, "the rename target qualifies")
}
