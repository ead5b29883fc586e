package model

import "time"

// RiskLevel is the coarse verdict attached to a scanned URL.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskSuspicious RiskLevel = "suspicious"
	RiskDangerous  RiskLevel = "dangerous"
)

// Severity maps the level onto 0..2 for sorting and coloring only. The scale
// is not comparable across detection sources.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskDangerous:
		return 2
	case RiskSuspicious:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskSafe, RiskSuspicious, RiskDangerous:
		return true
	}
	return false
}

// Sentinel metadata used when the remote classifier could not be consulted.
const (
	FallbackModelVersion    = "N/A"
	FallbackDetectionSource = "fallback"
)

// ClassificationResult is the outcome of a single scan. It is never mutated
// after the classifier returns it.
type ClassificationResult struct {
	URL             string    `json:"url"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Threats         []string  `json:"threats"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
	UsedMLModel     bool      `json:"usedMLModel"`
	IsZeroDay       bool      `json:"isZeroDay"`
	ModelVersion    string    `json:"modelVersion"`
	DetectionSource string    `json:"detectionSource"`
	ConfidenceScore float64   `json:"confidenceScore"`
}

// IsFallback reports whether the result came from the local heuristic.
func (r ClassificationResult) IsFallback() bool {
	return r.DetectionSource == FallbackDetectionSource && !r.UsedMLModel
}

// HistoryEntry is a ClassificationResult as stored in scan history.
type HistoryEntry struct {
	ClassificationResult
	ID string `json:"id"`
}
