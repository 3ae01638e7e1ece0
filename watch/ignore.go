package watch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// IgnoreOracle answers whether a path should be excluded from consideration.
// Implementations must be read-only after construction; the filter queries
// them concurrently with event delivery.
type IgnoreOracle interface {
	Matches(path string) bool
}

// gitignoreOracle compiles gitignore-style patterns once at session start.
type gitignoreOracle struct {
	root    string
	matcher *patternmatcher.PatternMatcher
}

// NewIgnoreOracle reads the ignore file at root/name and compiles its
// patterns. A missing, unreadable, or malformed ignore file yields an oracle
// with no rules; that condition is logged once and is never fatal, since
// watch mode should survive whatever state the working directory is in.
func NewIgnoreOracle(root, name string, logger *logrus.Entry) IgnoreOracle {
	path := filepath.Join(root, name)

	patterns, err := readIgnorePatterns(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).Warnf("cannot read ignore file %s, continuing without ignore rules", path)
		}
		return &gitignoreOracle{root: root}
	}

	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		logger.WithError(err).Warnf("cannot compile ignore patterns from %s, continuing without ignore rules", path)
		return &gitignoreOracle{root: root}
	}

	// The matcher compiles each pattern's regexp lazily on its first match
	// attempt. Force that compilation now, while the oracle is still owned by
	// one goroutine; afterwards the matcher is read-only and safe to query
	// from the source and watch-loop goroutines concurrently.
	if _, err := matcher.MatchesOrParentMatches("a/b"); err != nil {
		logger.WithError(err).Warnf("cannot compile ignore patterns from %s, continuing without ignore rules", path)
		return &gitignoreOracle{root: root}
	}

	return &gitignoreOracle{root: root, matcher: matcher}
}

// readIgnorePatterns parses an ignore file into pattern lines, dropping
// blanks and comments.
func readIgnorePatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// Matches reports whether path is excluded by the compiled rules. Paths are
// matched relative to the oracle's root with forward slashes; paths outside
// the root are never ignored.
func (o *gitignoreOracle) Matches(path string) bool {
	if o.matcher == nil {
		return false
	}

	rel, err := filepath.Rel(o.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	matched, err := o.matcher.MatchesOrParentMatches(filepath.ToSlash(rel))
	if err != nil {
		return false
	}
	return matched
}
