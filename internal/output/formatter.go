package output

import (
	"fmt"
	"io"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/model"
	"github.com/saumyapandey31/Phishnet/internal/riskcolor"
)

func PrintScanHeader(w io.Writer, url string) {
	fmt.Fprintf(w, "\n[+] Scanning: %s\n", url)
}

func PrintError(w io.Writer, url string, err error) {
	fmt.Fprintf(w, "  [!] %s: %v\n", url, err)
}

// PrintResult prints one verdict with its threats and recommendations.
func PrintResult(w io.Writer, res model.ClassificationResult) {
	fmt.Fprintf(w, "  Risk: %s\n", riskcolor.Label(res.RiskLevel))
	if len(res.Threats) > 0 {
		fmt.Fprintln(w, "  Threats:")
		for _, t := range res.Threats {
			fmt.Fprintf(w, "    - %s\n", riskcolor.WrapByLevel(t, res.RiskLevel))
		}
	}
	fmt.Fprintln(w, "  Recommendations:")
	for _, r := range res.Recommendations {
		fmt.Fprintf(w, "    - %s\n", r)
	}
	fmt.Fprintln(w, riskcolor.Gray("  "+sourceLine(res)))
}

// PrintSummaryLine prints a one-line verdict for target i of total.
func PrintSummaryLine(w io.Writer, i, total int, rec Record) {
	if rec.Error != "" {
		fmt.Fprintf(w, "[%d/%d] %s | error: %s\n", i+1, total, rec.URL, rec.Error)
		return
	}
	fmt.Fprintf(w, "[%d/%d] %s | %s | threats=%d | source=%s\n",
		i+1, total, rec.URL, riskcolor.Label(rec.RiskLevel), len(rec.Threats), rec.DetectionSource)
}

// PrintTotals prints the aggregate counters of a run.
func PrintTotals(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nScanned %d: %s %d, %s %d, %s %d",
		s.Total,
		riskcolor.Label(model.RiskDangerous), s.Dangerous,
		riskcolor.Label(model.RiskSuspicious), s.Suspicious,
		riskcolor.Label(model.RiskSafe), s.Safe)
	if s.Fallback > 0 {
		fmt.Fprintf(w, " (%d by local heuristic)", s.Fallback)
	}
	if s.Errors > 0 {
		fmt.Fprintf(w, ", errors %d", s.Errors)
	}
	fmt.Fprintln(w)
}

// PrintHistory lists entries newest first.
func PrintHistory(w io.Writer, entries []model.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scans yet.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%2d. %s  %s  %s\n", i+1,
			e.Timestamp.Local().Format(time.DateTime),
			riskcolor.Label(e.RiskLevel),
			e.URL)
	}
}

func sourceLine(res model.ClassificationResult) string {
	if res.IsFallback() {
		return "Source: local heuristic (classifier unavailable)"
	}
	line := "Source: " + orDash(res.DetectionSource) + " | Model: " + orDash(res.ModelVersion) +
		" | Confidence: " + confidencePercent(res.ConfidenceScore)
	if res.IsZeroDay {
		line += " | Zero-day"
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
