package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when the caller does not set one.
const DefaultUserAgent = "phishnet/1.0"

// Config holds settings for the HTTP client.
type Config struct {
	Timeout         time.Duration
	Headers         http.Header
	UserAgent       string
	Insecure        bool
	Retries         int
	FollowRedirects bool
}

// headerRoundTripper injects static headers and retries transport errors and
// 5xx answers with exponential backoff.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	userAgent string
	retries   int
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if h.base == nil {
		h.base = http.DefaultTransport
	}

	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		// Clone the request to avoid mutations across retries
		r := req.Clone(req.Context())
		if req.Body != nil && req.GetBody != nil {
			if body, berr := req.GetBody(); berr == nil {
				r.Body = body
			}
		}

		for k, vs := range h.headers {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if r.Header.Get("User-Agent") == "" && h.userAgent != "" {
			r.Header.Set("User-Agent", h.userAgent)
		}

		resp, err = h.base.RoundTrip(r)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		// a body without GetBody cannot be replayed
		if attempt >= h.retries || (req.Body != nil && req.GetBody == nil) {
			if err != nil {
				return nil, err
			}
			return resp, nil
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(time.Duration(100*(1<<attempt)) * time.Millisecond):
		}
	}
}

// New returns a configured HTTP client. Redirects are not followed unless
// cfg.FollowRedirects is set; a redirected POST would silently turn into a GET.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	client := &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			userAgent: ua,
			retries:   cfg.Retries,
		},
		Timeout: cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
