package watch

import (
	"path/filepath"
	"strings"
)

// Classifier turns raw events into content-change verdicts. It drops
// metadata-only noise, filter-rejected paths, and the per-descendant echoes
// of a directory-removal cascade.
//
// Repeated changes to the same path each produce a verdict: every qualifying
// change must extend the debounce window, so a stream of saves to one file
// keeps postponing the rerun until edits settle.
//
// The classifier is owned by the single watch loop task and is not safe for
// concurrent use.
type Classifier struct {
	filter *PathFilter

	// removedPrefixes holds removal paths seen this cycle; removals under
	// any of them are coalesced into the original change rather than
	// producing one change per descendant.
	removedPrefixes []string
}

// NewClassifier creates a Classifier over the given filter.
func NewClassifier(filter *PathFilter) *Classifier {
	return &Classifier{filter: filter}
}

// Classify returns the content change for a raw event, or ok=false when the
// event is noise.
//
// Metadata-only events (permission or attribute changes) never qualify:
// content bytes did not change. Atomic editor saves need no special casing —
// the final rename target arrives as a create event and qualifies if the
// filter accepts it, regardless of whether the intermediate temp file was
// ignored.
func (c *Classifier) Classify(ev RawEvent) (ContentChange, bool) {
	if ev.Kind == KindMetadataOnly || ev.Kind == KindOther {
		return ContentChange{}, false
	}

	abs, err := filepath.Abs(ev.Path)
	if err != nil {
		return ContentChange{}, false
	}

	if !c.filter.Relevant(abs) {
		return ContentChange{}, false
	}

	if ev.Kind == KindRemoved || ev.Kind == KindRenamed {
		if c.underRemovedPrefix(abs) {
			return ContentChange{}, false
		}
		c.removedPrefixes = append(c.removedPrefixes, abs)
	}

	return ContentChange{Path: abs, Kind: ev.Kind}, true
}

// Reset clears per-cycle state. The session calls it after each emitted
// trigger so the next burst is classified fresh.
func (c *Classifier) Reset() {
	c.removedPrefixes = c.removedPrefixes[:0]
}

func (c *Classifier) underRemovedPrefix(path string) bool {
	for _, prefix := range c.removedPrefixes {
		if strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
