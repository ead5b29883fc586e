package util

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoHost is returned when a URL parses but lacks a scheme or host.
var ErrNoHost = errors.New("url has no scheme or host")

// Hostname parses raw as an absolute URL and returns its lowercased hostname.
// Bare domains such as "example.com" are rejected, matching how a browser URL
// constructor treats them.
func Hostname(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%q: %w", raw, ErrNoHost)
	}
	return strings.ToLower(u.Hostname()), nil
}

// RegistrableDomain returns the eTLD+1 for the URL host. When the public
// suffix list has no answer (IP literals, single-label hosts) the lowercased
// host is returned unchanged.
func RegistrableDomain(raw string) string {
	host, err := Hostname(raw)
	if err != nil {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
