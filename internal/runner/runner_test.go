package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

type countingClassifier struct {
	calls int32
}

var errBad = errors.New("bad input")

func (c *countingClassifier) Classify(ctx context.Context, url string) (model.ClassificationResult, error) {
	atomic.AddInt32(&c.calls, 1)
	if url == "bad" {
		return model.ClassificationResult{}, errBad
	}
	return model.ClassificationResult{URL: url, RiskLevel: model.RiskSafe}, nil
}

func TestRunPreservesOrder(t *testing.T) {
	c := &countingClassifier{}
	targets := []string{"https://a", "bad", "https://c", "https://d", "https://e"}
	out := New(Config{Threads: 3}, c).Run(context.Background(), targets)

	if len(out) != len(targets) {
		t.Fatalf("expected %d outcomes, got %d", len(targets), len(out))
	}
	for i, o := range out {
		if o.Target != targets[i] {
			t.Fatalf("outcome %d target %q, want %q", i, o.Target, targets[i])
		}
		if targets[i] == "bad" {
			if !errors.Is(o.Err, errBad) {
				t.Fatalf("expected errBad for bad target, got %v", o.Err)
			}
			continue
		}
		if o.Err != nil || o.Result.URL != targets[i] {
			t.Fatalf("unexpected outcome %+v", o)
		}
	}
	if got := atomic.LoadInt32(&c.calls); got != int32(len(targets)) {
		t.Fatalf("expected %d calls, got %d", len(targets), got)
	}
}

func TestRunRateLimit(t *testing.T) {
	c := &countingClassifier{}
	start := time.Now()
	New(Config{Threads: 4, RateLimit: 20}, c).Run(context.Background(), []string{"a", "b", "c", "d"})
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("rate limit not applied, took %s", elapsed)
	}
}

func TestRunCanceled(t *testing.T) {
	c := &countingClassifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := New(Config{Threads: 2, RateLimit: 1}, c).Run(ctx, []string{"a", "b", "c"})
	for _, o := range out {
		if o.Err == nil {
			continue
		}
		if !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("unexpected error %v", o.Err)
		}
	}
	if got := atomic.LoadInt32(&c.calls); got != 0 {
		t.Fatalf("expected no classification after cancel, got %d", got)
	}
}
