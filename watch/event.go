package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies a raw filesystem observation.
type EventKind int

const (
	// KindOther covers event types the engine has no policy for.
	KindOther EventKind = iota
	// KindCreated indicates a file or directory appeared.
	KindCreated
	// KindModified indicates file content bytes changed.
	KindModified
	// KindRemoved indicates a file or directory disappeared.
	KindRemoved
	// KindRenamed indicates a file or directory was renamed away from this
	// path. The new name, if watched, arrives as a separate KindCreated.
	KindRenamed
	// KindMetadataOnly indicates a permission or attribute change with no
	// content change.
	KindMetadataOnly
)

// String returns a human-readable representation of the kind.
func (k EventKind) String() string {
	switch k {
	case KindCreated:
		return "CREATE"
	case KindModified:
		return "MODIFY"
	case KindRemoved:
		return "REMOVE"
	case KindRenamed:
		return "RENAME"
	case KindMetadataOnly:
		return "CHMOD"
	default:
		return "OTHER"
	}
}

// RawEvent is one observation from the OS notifier. It is consumed
// immediately by the classifier and not retained.
type RawEvent struct {
	Path string
	Kind EventKind
	Time time.Time
}

// kindOf maps fsnotify op bits to an EventKind. When multiple bits are set
// the most content-significant one wins.
func kindOf(op fsnotify.Op) EventKind {
	switch {
	case op.Has(fsnotify.Create):
		return KindCreated
	case op.Has(fsnotify.Write):
		return KindModified
	case op.Has(fsnotify.Remove):
		return KindRemoved
	case op.Has(fsnotify.Rename):
		return KindRenamed
	case op.Has(fsnotify.Chmod):
		return KindMetadataOnly
	default:
		return KindOther
	}
}

// ContentChange is the classifier's verdict that an event represents a
// genuine content change worth debouncing.
type ContentChange struct {
	Path string
	Kind EventKind
}
