// Package detect holds the local heuristic used when the remote classifier
// cannot be consulted. It inspects the hostname only.
package detect

import (
	"strings"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

var suspiciousMarkers = []string{"secure", "login", "account", "verify", "-"}

var suspiciousSuffixes = []string{".xyz", ".net"}

var dangerousMarkers = []string{"0", "1", "security", "bank"}

// Verdict is the heuristic outcome for one hostname.
type Verdict struct {
	Level           model.RiskLevel
	Threats         []string
	Recommendations []string
}

// Suspicious reports whether host carries a lure keyword, a hyphen or a
// cheap/generic TLD.
func Suspicious(host string) bool {
	host = strings.ToLower(host)
	for _, m := range suspiciousMarkers {
		if strings.Contains(host, m) {
			return true
		}
	}
	for _, s := range suspiciousSuffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

// Dangerous reports whether host contains a digit (character substitution
// such as paypa1) or a security-sensitive keyword.
func Dangerous(host string) bool {
	host = strings.ToLower(host)
	for _, m := range dangerousMarkers {
		if strings.Contains(host, m) {
			return true
		}
	}
	return strings.IndexFunc(host, isDigit) >= 0
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Evaluate classifies host. Dangerous outranks suspicious.
func Evaluate(host string) Verdict {
	switch {
	case Dangerous(host):
		return Verdict{
			Level: model.RiskDangerous,
			Threats: []string{
				"Suspicious character substitution detected",
				"Domain contains security-sensitive keywords",
				"Potential phishing attempt",
			},
			Recommendations: []string{
				"Do not enter any personal information",
				"Avoid accessing this website",
				"Report to relevant authorities",
			},
		}
	case Suspicious(host):
		return Verdict{
			Level: model.RiskSuspicious,
			Threats: []string{
				"Domain contains suspicious keywords",
				"Unusual domain pattern detected",
				"Limited domain history available",
			},
			Recommendations: []string{
				"Proceed with extreme caution",
				"Verify the website's legitimacy",
				"Do not enter sensitive information",
			},
		}
	default:
		return Verdict{
			Level:   model.RiskSafe,
			Threats: []string{},
			Recommendations: []string{
				"Website appears legitimate",
				"Always verify SSL certificates",
				"Monitor for unusual activity",
			},
		}
	}
}
