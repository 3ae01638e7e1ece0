package watch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	sprinterrors "github.com/grovetools/sprint/errors"
)

// Session is the long-lived watch aggregate: the event source, the
// filter/classifier/debouncer pipeline, and the supervised child (if a
// command was configured). Created by New, runs until the context is
// cancelled or the event source is lost.
type Session struct {
	source     *Source
	classifier *Classifier
	debouncer  *Debouncer
	supervisor *Supervisor // nil in report-only mode
	logger     *logrus.Entry

	triggers atomic.Uint64
}

// Run drives the watch loop. It keeps consuming and classifying events even
// while a command is running, so the next trigger is computed on time; only
// the kill-and-rerun sequence itself (bounded by the grace period) holds up
// the loop.
//
// Run returns nil when ctx is cancelled, and an EVENT_SOURCE error when the
// notifier backend fails or its stream closes unexpectedly. In both cases a
// live child is killed before returning; it is never left orphaned.
func (s *Session) Run(ctx context.Context) error {
	defer s.shutdown()

	go s.source.Run(ctx)

	// The timer carries the debounce deadline. Every qualifying change
	// pushes it out; it only gets to fire once edits have settled.
	timer := time.NewTimer(s.debouncer.Quiet())
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watch session cancelled")
			return nil

		case ev, ok := <-s.source.Events():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return sprinterrors.EventSourceFailed(nil)
			}
			if change, ok := s.classifier.Classify(ev); ok {
				s.logger.WithFields(logrus.Fields{
					"path": change.Path,
					"kind": change.Kind.String(),
				}).Debug("content change")
				s.debouncer.Observe(ev.Time)
				// Stop and drain before rearming; a stale expiry that slips
				// through anyway is rejected by the deadline check in Fire.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debouncer.Quiet())
			}

		case err := <-s.source.Errors():
			s.logger.WithError(err).Error("event source failed")
			return sprinterrors.EventSourceFailed(err)

		case now := <-timer.C:
			if s.debouncer.Fire(now) {
				s.classifier.Reset()
				s.trigger()
			} else if s.debouncer.Pending() {
				// A stale expiry was rejected; re-arm for the real deadline
				// so the pending trigger is never stranded.
				timer.Reset(time.Until(s.debouncer.Deadline()))
			}
		}
	}
}

// trigger handles one debounced rerun decision. Per-trigger errors are
// reported and swallowed: watch mode's value is resilience across many
// edit-save cycles.
func (s *Session) trigger() {
	s.triggers.Add(1)

	if s.supervisor == nil {
		s.logger.Info("change detected")
		return
	}

	if err := s.supervisor.OnTrigger(); err != nil {
		s.logger.WithError(err).Error("rerun failed, awaiting next change")
	}
}

// shutdown kills any live child and releases the event source.
func (s *Session) shutdown() {
	if s.supervisor != nil {
		s.supervisor.Stop()
	}
	if err := s.source.Close(); err != nil {
		s.logger.WithError(err).Debug("closing event source")
	}
}

// TriggerCount returns how many debounced triggers the session has emitted.
func (s *Session) TriggerCount() uint64 {
	return s.triggers.Load()
}

// Supervising reports whether the session runs a command on trigger (true)
// or only reports changes (false).
func (s *Session) Supervising() bool {
	return s.supervisor != nil
}
