package util

import (
	"errors"
	"testing"
)

func TestHostname(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://PayPa1-Login.NET/path?q=1", want: "paypa1-login.net"},
		{in: "http://127.0.0.1:8080/", want: "127.0.0.1"},
		{in: "  https://example.com  ", want: "example.com"},
		{in: "example.com", wantErr: true},
		{in: "not a url", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "http://[::1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Hostname(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Hostname(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Hostname(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Hostname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHostnameNoHostSentinel(t *testing.T) {
	_, err := Hostname("mailto:someone")
	if !errors.Is(err, ErrNoHost) {
		t.Fatalf("expected ErrNoHost, got %v", err)
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := map[string]string{
		"https://login.accounts.example.co.uk/x": "example.co.uk",
		"https://www.paypa1.com/login":           "paypa1.com",
		"http://localhost:5000/api":              "localhost",
		"garbage":                                "",
	}
	for in, want := range tests {
		if got := RegistrableDomain(in); got != want {
			t.Fatalf("RegistrableDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsInternalHost(t *testing.T) {
	internal := []string{"localhost", "app.localhost", "127.0.0.1", "10.1.2.3", "api.internal", "::1", "[::1]", "192.168.1.10", "169.254.1.1", "fd00::5", "100.64.0.7", "::ffff:10.0.0.1"}
	for _, h := range internal {
		if !IsInternalHost(h) {
			t.Fatalf("expected %q to be internal", h)
		}
	}
	external := []string{"example.com", "8.8.8.8", "classifier.phishnet.io", "2001:4860:4860::8888", "internal.example.com"}
	for _, h := range external {
		if IsInternalHost(h) {
			t.Fatalf("expected %q to be external", h)
		}
	}
}
