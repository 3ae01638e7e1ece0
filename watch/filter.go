package watch

import (
	"os"
	"path/filepath"
	"strings"
)

// WatchPath is a filesystem root explicitly given by the caller. Immutable
// once the session starts.
type WatchPath struct {
	// Path is absolute.
	Path string
	// Recursive is true for directories: events anywhere under the root are
	// in scope. For single files only events on the file itself count.
	Recursive bool
}

// NewWatchPath resolves path and determines whether it is watched
// recursively.
func NewWatchPath(path string) (WatchPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return WatchPath{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return WatchPath{}, err
	}
	return WatchPath{Path: abs, Recursive: info.IsDir()}, nil
}

// PathFilter decides whether a raw event path is relevant to the session.
// It is a pure function of (path, oracle, allow-list) and is safe to call
// concurrently with event delivery: all fields are immutable after
// construction.
type PathFilter struct {
	roots  []WatchPath
	allow  []string // absolute paths; files or directory prefixes
	oracle IgnoreOracle
}

// NewPathFilter builds a filter over the given roots. Allow-listed paths
// always win over ignore rules: an explicit -w style inclusion overrides
// .gitignore.
func NewPathFilter(roots []WatchPath, allowList []string, oracle IgnoreOracle) (*PathFilter, error) {
	allow := make([]string, 0, len(allowList))
	for _, a := range allowList {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		allow = append(allow, abs)
	}

	return &PathFilter{roots: roots, allow: allow, oracle: oracle}, nil
}

// Relevant reports whether path lies under at least one watch root and is
// either allow-listed or not matched by the ignore oracle.
func (f *PathFilter) Relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	if !f.underRoot(abs) {
		return false
	}

	if f.Allowed(abs) {
		return true
	}

	return !f.oracle.Matches(abs)
}

// Allowed reports whether path is explicitly allow-listed, either exactly or
// as a descendant of an allow-listed directory.
func (f *PathFilter) Allowed(path string) bool {
	for _, a := range f.allow {
		if path == a || strings.HasPrefix(path, a+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether a directory is ignored and not allow-listed.
// The source uses it to prune whole trees from notifier registration.
func (f *PathFilter) IgnoredDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if f.Allowed(abs) {
		return false
	}
	return f.oracle.Matches(abs)
}

func (f *PathFilter) underRoot(path string) bool {
	for _, root := range f.roots {
		if path == root.Path {
			return true
		}
		if root.Recursive && strings.HasPrefix(path, root.Path+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
