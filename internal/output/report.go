package output

import (
	"bufio"
	"encoding/json"
	"html/template"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/model"
	"github.com/saumyapandey31/Phishnet/internal/util"
)

// Record represents one line in the JSONL report.
type Record struct {
	ID              string          `json:"id,omitempty"`
	Timestamp       string          `json:"timestamp,omitempty"`
	URL             string          `json:"url"`
	Domain          string          `json:"domain,omitempty"`
	RiskLevel       model.RiskLevel `json:"riskLevel,omitempty"`
	Threats         []string        `json:"threats"`
	Recommendations []string        `json:"recommendations"`
	UsedMLModel     bool            `json:"usedMLModel"`
	IsZeroDay       bool            `json:"isZeroDay"`
	ModelVersion    string          `json:"modelVersion,omitempty"`
	DetectionSource string          `json:"detectionSource,omitempty"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Fallback        bool            `json:"fallback"`
	Error           string          `json:"error,omitempty"`
}

// Summary contains counters for the HTML summary section.
type Summary struct {
	Total      int
	Dangerous  int
	Suspicious int
	Safe       int
	Fallback   int
	Errors     int
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index int
	Record
	Time time.Time
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Results       []ResultView
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

// BuildRecord converts a classification into a Record.
func BuildRecord(res model.ClassificationResult) Record {
	rec := Record{
		URL:             res.URL,
		Domain:          util.RegistrableDomain(res.URL),
		RiskLevel:       res.RiskLevel,
		Threats:         append([]string{}, res.Threats...),
		Recommendations: append([]string{}, res.Recommendations...),
		UsedMLModel:     res.UsedMLModel,
		IsZeroDay:       res.IsZeroDay,
		ModelVersion:    res.ModelVersion,
		DetectionSource: res.DetectionSource,
		ConfidenceScore: res.ConfidenceScore,
		Fallback:        res.IsFallback(),
	}
	if !res.Timestamp.IsZero() {
		rec.Timestamp = res.Timestamp.UTC().Format(time.RFC3339)
	}
	return rec
}

// BuildHistoryRecord converts a history entry, keeping its id.
func BuildHistoryRecord(e model.HistoryEntry) Record {
	rec := BuildRecord(e.ClassificationResult)
	rec.ID = e.ID
	return rec
}

// BuildErrorRecord describes a target that could not be classified.
func BuildErrorRecord(target string, err error) Record {
	return Record{
		URL:             target,
		Threats:         []string{},
		Recommendations: []string{},
		Error:           err.Error(),
	}
}

// BuildResultView converts a Record into a ResultView for HTML rendering.
func BuildResultView(idx int, rec Record) ResultView {
	v := ResultView{Index: idx, Record: rec}
	if rec.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
			v.Time = t
		}
	}
	return v
}

// BuildSummary derives high level counters from the records.
func BuildSummary(records []Record) Summary {
	sum := Summary{Total: len(records)}
	for _, rec := range records {
		if rec.Error != "" {
			sum.Errors++
			continue
		}
		switch rec.RiskLevel {
		case model.RiskDangerous:
			sum.Dangerous++
		case model.RiskSuspicious:
			sum.Suspicious++
		case model.RiskSafe:
			sum.Safe++
		}
		if rec.Fallback {
			sum.Fallback++
		}
	}
	return sum
}

// WriteJSONL writes each record as a JSON line to w.
func WriteJSONL(w io.Writer, records []Record) error {
	jw := NewJSONLWriter(w)
	for _, rec := range records {
		if err := jw.Write(rec); err != nil {
			return err
		}
	}
	return jw.Flush()
}

// ReadJSONL decodes records written by WriteJSONL. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var out []Record
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	},
	"upper":   func(l model.RiskLevel) string { return strings.ToUpper(string(l)) },
	"percent": confidencePercent,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
header { margin-bottom: 24px; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; box-shadow:0 1px 2px rgba(15,23,42,0.08); }
h2 { font-size:20px; margin:0 0 12px; }
h3 { font-size:16px; margin:12px 0 6px; }
dt { font-weight:600; }
dd { margin:0 0 8px 0; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(160px,1fr)); }
.summary-card { display:block; padding:12px; border-radius:12px; border:1px solid #cbd5f5; text-decoration:none; color:inherit; position:relative; background:linear-gradient(180deg,#eef2ff,#fff); }
.summary-card[data-active="true"] { border-color:#4f46e5; box-shadow:0 0 0 2px rgba(79,70,229,0.4); }
.summary-card .badge { position:absolute; top:12px; right:12px; padding:2px 10px; border-radius:999px; background:#4f46e5; color:#fff; font-size:12px; }
.meta { color:#6b7280; font-size:12px; }
.result-row { border-top:1px solid #e5e7eb; padding-top:12px; margin-top:12px; }
.result-row:first-of-type { border-top:none; padding-top:0; margin-top:0; }
.list { list-style:disc; margin:8px 0 8px 20px; }
.risk { display:inline-block; padding:2px 8px; border-radius:999px; font-size:12px; margin-left:6px; color:#fff; }
.risk-safe { background:#16a34a; }
.risk-suspicious { background:#ca8a04; }
.risk-dangerous { background:#dc2626; }
.risk-error { background:#6b7280; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; }
.table th { background:#f9fafb; }
.url { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; word-break:break-all; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; box-shadow:none; }
        .summary-card { background:linear-gradient(180deg,#312e81,#1e293b); border-color:#4338ca; color:#e0e7ff; }
        .meta { color:#94a3b8; }
        .table th { background:#1e293b; }
}
</style>
<script>
document.addEventListener('DOMContentLoaded', function() {
  const cards = document.querySelectorAll('[data-filter]');
  const rows = document.querySelectorAll('.result-row');
  function apply(filter) {
    cards.forEach(c => c.dataset.active = (c.dataset.filter === filter ? 'true' : 'false'));
    rows.forEach(row => {
      let show = filter === 'all' || row.dataset.risk === filter;
      if (filter === 'fallback') {
        show = row.dataset.fallback === 'true';
      }
      row.style.display = show ? '' : 'none';
    });
  }
  cards.forEach(card => {
    card.addEventListener('click', function (ev) {
      ev.preventDefault();
      apply(card.dataset.filter || 'all');
    });
  });
  apply('all');
});
</script>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <a class="summary-card" href="#results" data-filter="all"><strong>Total</strong><span class="badge">{{.Summary.Total}}</span></a>
    <a class="summary-card" href="#results" data-filter="dangerous"><strong>Dangerous</strong><span class="badge">{{.Summary.Dangerous}}</span></a>
    <a class="summary-card" href="#results" data-filter="suspicious"><strong>Suspicious</strong><span class="badge">{{.Summary.Suspicious}}</span></a>
    <a class="summary-card" href="#results" data-filter="safe"><strong>Safe</strong><span class="badge">{{.Summary.Safe}}</span></a>
    <a class="summary-card" href="#results" data-filter="fallback"><strong>Local heuristic</strong><span class="badge">{{.Summary.Fallback}}</span></a>
    <a class="summary-card" href="#results" data-filter="error"><strong>Errors</strong><span class="badge">{{.Summary.Errors}}</span></a>
  </div>
</section>
{{if .OrderedParams}}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="url">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
{{end}}
<section id="results" class="section">
  <h2>Results</h2>
  {{range .Results}}
  <div class="result-row" data-risk="{{if .Error}}error{{else}}{{.RiskLevel}}{{end}}" data-fallback="{{.Fallback}}">
    {{if .Error}}
    <h3><span class="url">{{.URL}}</span><span class="risk risk-error">ERROR</span></h3>
    <p class="meta">{{.Error}}</p>
    {{else}}
    <h3><span class="url">{{.URL}}</span><span class="risk risk-{{.RiskLevel}}">{{upper .RiskLevel}}</span></h3>
    {{if .Threats}}
      <p><strong>Threats</strong></p>
      <ul class="list">{{range .Threats}}<li>{{.}}</li>{{end}}</ul>
    {{end}}
    <p><strong>Recommendations</strong></p>
    <ul class="list">{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
    <p class="meta">Source {{.DetectionSource}} • Model {{if .ModelVersion}}{{.ModelVersion}}{{else}}-{{end}} • Confidence {{percent .ConfidenceScore}}{{if .IsZeroDay}} • Zero-day{{end}} • Scanned {{formatTime .Time}}</p>
    {{end}}
  </div>
  {{end}}
</section>
<section id="domains" class="section">
  <h2>Domains</h2>
  <table class="table">
    <thead>
      <tr><th>#</th><th>URL</th><th>Registrable domain</th><th>Risk</th><th>Source</th></tr>
    </thead>
    <tbody>
    {{range .Results}}
      <tr>
        <td>{{.Index}}</td>
        <td class="url">{{.URL}}</td>
        <td>{{if .Domain}}{{.Domain}}{{else}}-{{end}}</td>
        <td>{{if .Error}}error{{else}}{{.RiskLevel}}{{end}}</td>
        <td>{{if .DetectionSource}}{{.DetectionSource}}{{else}}-{{end}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
</section>
<footer class="footer">
  PhishNet report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// confidencePercent renders a score as a percentage. Scores in (0,1] are
// treated as fractions.
func confidencePercent(f float64) string {
	if f > 0 && f <= 1 {
		f *= 100
	}
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64) + "%"
}

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
