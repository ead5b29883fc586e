// Package classifier asks a remote classification service for a verdict on a
// URL and degrades to the local hostname heuristic in package detect whenever
// the service cannot give a usable answer.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/detect"
	"github.com/saumyapandey31/Phishnet/internal/model"
	"github.com/saumyapandey31/Phishnet/internal/util"
)

// ErrInvalidURL is returned when the remote service was not usable and the
// URL cannot be parsed into a scheme and host for the heuristic.
var ErrInvalidURL = errors.New("invalid url")

// DefaultEndpoint matches the development classification service.
const DefaultEndpoint = "http://localhost:5000/api/check-url"

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 1 << 20

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client classifies URLs.
type Client struct {
	endpoint string
	http     Doer
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client posting to endpoint through doer.
func New(endpoint string, doer Doer, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     doer,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the configured classification URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Classify returns a result for rawURL. It only fails with ErrInvalidURL;
// every remote failure falls back to the local heuristic.
func (c *Client) Classify(ctx context.Context, rawURL string) (model.ClassificationResult, error) {
	resp, err := c.query(ctx, rawURL)
	if err == nil {
		return c.fromRemote(rawURL, resp), nil
	}
	c.log.Warn("classifier unavailable, using local heuristic", "url", rawURL, "err", err)
	return c.fallback(rawURL)
}

func (c *Client) query(ctx context.Context, rawURL string) (*remoteResponse, error) {
	body, err := json.Marshal(remoteRequest{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeResponse(raw)
}

func (c *Client) fromRemote(rawURL string, r *remoteResponse) model.ClassificationResult {
	res := model.ClassificationResult{
		URL:             rawURL,
		UsedMLModel:     r.UsedMLModel.orZero(),
		IsZeroDay:       r.IsZeroDay.orZero(),
		ModelVersion:    r.ModelVersion.orZero(),
		DetectionSource: r.DetectionSource.orZero(),
		ConfidenceScore: r.ConfidenceScore.orZero(),
	}
	if strings.EqualFold(*r.Result, "phishing") {
		res.RiskLevel = model.RiskDangerous
		res.Threats = []string{
			"Potential phishing attempt",
			"ML model detected suspicious patterns",
			"Domain flagged by risk rules",
		}
		res.Recommendations = []string{
			"Avoid clicking or sharing this link",
			"Report the site to administrators",
			"Run a malware scan if visited",
		}
	} else {
		res.RiskLevel = model.RiskSafe
		res.Threats = []string{}
		res.Recommendations = []string{
			"URL appears safe",
			"Always verify SSL and domain",
			"Use browser protections",
		}
	}
	res.Timestamp = c.now().UTC()
	return res
}

func (c *Client) fallback(rawURL string) (model.ClassificationResult, error) {
	host, err := util.Hostname(rawURL)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	v := detect.Evaluate(host)
	return model.ClassificationResult{
		URL:             rawURL,
		RiskLevel:       v.Level,
		Threats:         v.Threats,
		Recommendations: v.Recommendations,
		Timestamp:       c.now().UTC(),
		UsedMLModel:     false,
		IsZeroDay:       false,
		ModelVersion:    model.FallbackModelVersion,
		DetectionSource: model.FallbackDetectionSource,
		ConfidenceScore: 0,
	}, nil
}

// StatusError reports a non-2xx answer from the classification service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classifier returned status %d", e.Code)
}
