package util

import (
	"net/netip"
	"strings"
)

// carrierNAT is the shared address space (RFC 6598), which netip does not
// classify as private.
var carrierNAT = netip.MustParsePrefix("100.64.0.0/10")

// IsInternalHost reports whether host names this machine or a private
// network: localhost names, *.internal, and loopback, link-local, RFC 1918,
// ULA or carrier-NAT addresses. IPv6 literals may keep their brackets.
func IsInternalHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(strings.Trim(host, "[]"), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".internal") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsUnspecified() || carrierNAT.Contains(addr)
}
