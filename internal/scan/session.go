// Package scan ties one classification to the history it produces.
package scan

import (
	"context"
	"errors"
	"sync"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

// ErrSuperseded is returned by Session.Scan when a newer scan started before
// this one finished. The stale result is not recorded.
var ErrSuperseded = errors.New("scan superseded by a newer request")

// Classifier produces a result for a raw URL.
type Classifier interface {
	Classify(ctx context.Context, rawURL string) (model.ClassificationResult, error)
}

// Recorder appends a result to history.
type Recorder interface {
	Record(ctx context.Context, result model.ClassificationResult) ([]model.HistoryEntry, error)
}

// Outcome is what a finished scan hands to presentation.
type Outcome struct {
	Result  model.ClassificationResult
	History []model.HistoryEntry
	// PersistErr is set when history was updated in memory only.
	PersistErr error
}

// Session allows one scan in flight. Starting a scan cancels the previous
// one; only the newest scan's result reaches history.
type Session struct {
	classifier Classifier
	recorder   Recorder

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSession returns a Session. recorder may be nil to skip history.
func NewSession(c Classifier, r Recorder) *Session {
	return &Session{classifier: c, recorder: r}
}

// Scan classifies rawURL and records the result unless superseded.
func (s *Session) Scan(ctx context.Context, rawURL string) (Outcome, error) {
	s.mu.Lock()
	s.seq++
	mine := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.seq == mine {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	res, err := s.classifier.Classify(sctx, rawURL)
	if err != nil {
		return Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != mine {
		return Outcome{}, ErrSuperseded
	}
	out := Outcome{Result: res}
	if s.recorder != nil {
		// history writes must outlive the scan context
		out.History, out.PersistErr = s.recorder.Record(context.WithoutCancel(ctx), res)
	}
	return out, nil
}

// InFlight reports whether a scan is running.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
