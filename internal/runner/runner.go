package runner

import (
	"context"
	"sync"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

// Classifier produces a result for a raw URL.
type Classifier interface {
	Classify(ctx context.Context, rawURL string) (model.ClassificationResult, error)
}

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // requests per second, 0 = unlimited
}

// Outcome is the classification of one target. Err is only set for input
// the classifier rejected or targets skipped by cancellation.
type Outcome struct {
	Target string
	Result model.ClassificationResult
	Err    error
}

// Runner classifies many targets concurrently.
type Runner struct {
	cfg        Config
	classifier Classifier
}

// New creates a new Runner.
func New(cfg Config, c Classifier) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	return &Runner{cfg: cfg, classifier: c}
}

// Run processes targets and returns outcomes in input order.
func (r *Runner) Run(ctx context.Context, targets []string) []Outcome {
	out := make([]Outcome, len(targets))
	for i, t := range targets {
		out[i] = Outcome{Target: t, Err: context.Canceled}
	}
	var (
		rateCh <-chan time.Time
		ticker *time.Ticker
	)
	if r.cfg.RateLimit > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(r.cfg.RateLimit))
		rateCh = ticker.C
		defer ticker.Stop()
	}

	type job struct {
		idx    int
		target string
	}

	jobs := make(chan job)
	wg := sync.WaitGroup{}
	for i := 0; i < r.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if rateCh != nil {
					select {
					case <-ctx.Done():
						continue
					case <-rateCh:
					}
				}
				res, err := r.classifier.Classify(ctx, jb.target)
				// each index is written by exactly one worker
				out[jb.idx] = Outcome{Target: jb.target, Result: res, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, t := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, target: t}:
			}
		}
	}()

	wg.Wait()
	return out
}
