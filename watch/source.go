package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Source owns the fsnotify watcher and turns its notifications into
// RawEvents delivered on a channel. fsnotify does not watch directories
// recursively, so Source registers each subdirectory itself and registers
// newly created directories as they appear.
type Source struct {
	watcher *fsnotify.Watcher
	skipDir func(string) bool
	events  chan RawEvent
	errs    chan error
	logger  *logrus.Entry
}

// NewSource creates a Source. skipDir, if non-nil, is consulted while
// walking directories so ignored trees (node_modules, .git) are never
// registered with the OS notifier at all.
func NewSource(skipDir func(string) bool, logger *logrus.Entry) (*Source, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Source{
		watcher: watcher,
		skipDir: skipDir,
		events:  make(chan RawEvent, 64),
		errs:    make(chan error, 8),
		logger:  logger,
	}, nil
}

// Add registers a watch path. Directories are registered recursively; a
// single file is watched through its parent directory, since that is the
// only reliable way to observe atomic-save rename sequences.
func (s *Source) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return s.addDirsRecursively(path)
	}
	return s.watcher.Add(filepath.Dir(path))
}

// addDirsRecursively registers dir and every non-skipped subdirectory.
func (s *Source) addDirsRecursively(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.WithError(err).Warnf("cannot access %s", path)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if s.skipDir != nil && path != dir && s.skipDir(path) {
			return filepath.SkipDir
		}
		if err := s.watcher.Add(path); err != nil {
			s.logger.WithError(err).Warnf("cannot watch %s", path)
			return nil
		}
		s.logger.Debugf("watching %s", path)
		return nil
	})
}

// Run consumes the fsnotify channels until the context is cancelled or the
// backend closes them. The events channel is closed on return, which the
// session treats as loss of the event source unless it cancelled the context
// itself.
func (s *Source) Run(ctx context.Context) {
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			raw := s.translate(event)
			select {
			case s.events <- raw:
			case <-ctx.Done():
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			default:
				s.logger.WithError(err).Warn("dropping backend error, channel full")
			}
		}
	}
}

// translate maps one fsnotify event and keeps the recursive registration
// current when new directories appear.
func (s *Source) translate(event fsnotify.Event) RawEvent {
	kind := kindOf(event.Op)

	if kind == KindCreated {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if s.skipDir == nil || !s.skipDir(event.Name) {
				if err := s.addDirsRecursively(event.Name); err != nil {
					s.logger.WithError(err).Warnf("cannot watch new directory %s", event.Name)
				}
			}
		}
	}

	return RawEvent{
		Path: event.Name,
		Kind: kind,
		Time: time.Now(),
	}
}

// Events returns the channel of translated raw events.
func (s *Source) Events() <-chan RawEvent {
	return s.events
}

// Errors returns the channel of backend errors.
func (s *Source) Errors() <-chan error {
	return s.errs
}

// Close releases the underlying watcher. Run returns shortly after.
func (s *Source) Close() error {
	return s.watcher.Close()
}
