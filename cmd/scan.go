package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saumyapandey31/Phishnet/internal/banner"
	"github.com/saumyapandey31/Phishnet/internal/classifier"
	"github.com/saumyapandey31/Phishnet/internal/history"
	"github.com/saumyapandey31/Phishnet/internal/output"
	"github.com/saumyapandey31/Phishnet/internal/runner"
	"github.com/saumyapandey31/Phishnet/internal/scan"
)

type scanOptions struct {
	file        string
	threads     int
	rateLimit   int
	outputJSONL string
	outputHTML  string
	noHistory   bool
	summary     bool
}

func newScanCmd(a *app) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Classify URLs and record them in scan history",
		Example: `  phishnet scan https://paypa1-login-secure.net
  phishnet scan -f urls.txt --threads 4 --jsonl out.jsonl --html report.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "file with one URL per line")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 4, "concurrent classifications")
	cmd.Flags().IntVar(&opts.rateLimit, "rate-limit", 0, "max classifications per second (0 = unlimited)")
	cmd.Flags().StringVar(&opts.outputJSONL, "jsonl", "", "write results as JSONL to this file (- for stdout)")
	cmd.Flags().StringVar(&opts.outputHTML, "html", "", "write an HTML report to this file")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record results in scan history")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "one line per target plus totals")
	return cmd
}

func runScan(cmd *cobra.Command, a *app, opts *scanOptions, args []string) error {
	if opts.threads <= 0 {
		return fmt.Errorf("--threads must be greater than zero (got %d)", opts.threads)
	}
	if opts.rateLimit < 0 {
		return fmt.Errorf("--rate-limit must be >= 0 (got %d)", opts.rateLimit)
	}
	targets, err := buildTargets(args, opts.file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no targets: pass one or more URLs or --file")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if !a.silent && opts.outputJSONL != "-" {
		banner.Fprint(out)
	}

	var store *history.Store
	if !opts.noHistory {
		s, release, err := a.openHistory(ctx)
		if err != nil {
			return err
		}
		defer release()
		store = s
	}
	c := a.newClassifier()
	quiet := a.silent || opts.outputJSONL == "-"

	var records []output.Record
	if len(targets) == 1 {
		rec, err := scanOne(cmd, c, store, targets[0], opts, quiet)
		if err != nil {
			return err
		}
		records = append(records, rec)
	} else {
		records = scanMany(cmd, a, c, store, targets, opts, quiet)
	}

	summary := output.BuildSummary(records)
	if !quiet && (opts.summary || len(records) > 1) {
		output.PrintTotals(out, summary)
	}

	if opts.outputJSONL != "" {
		if err := writeJSONLFile(cmd, a, opts.outputJSONL, records); err != nil {
			return err
		}
	}
	if opts.outputHTML != "" {
		views := make([]output.ResultView, len(records))
		for i, rec := range records {
			views[i] = output.BuildResultView(i, rec)
		}
		page := output.PageData{
			Title:       "PhishNet Scan Report",
			GeneratedAt: time.Now().UTC(),
			Params:      buildParamsMap(a, opts, len(targets)),
			Summary:     summary,
			Results:     views,
		}
		if err := writeHTMLFile(a, opts.outputHTML, page); err != nil {
			return err
		}
	}
	if summary.Errors > 0 {
		return fmt.Errorf("%d of %d target(s) could not be scanned", summary.Errors, summary.Total)
	}
	return nil
}

// scanOne runs a single interactive scan through a Session.
func scanOne(cmd *cobra.Command, c *classifier.Client, store *history.Store, target string, opts *scanOptions, quiet bool) (output.Record, error) {
	out := cmd.OutOrStdout()
	// a nil *history.Store must not become a non-nil Recorder
	var sess *scan.Session
	if store != nil {
		sess = scan.NewSession(c, store)
	} else {
		sess = scan.NewSession(c, nil)
	}

	if !quiet && !opts.summary {
		output.PrintScanHeader(out, target)
	}
	o, err := sess.Scan(cmd.Context(), target)
	if err != nil {
		if errors.Is(err, classifier.ErrInvalidURL) {
			return output.Record{}, fmt.Errorf("%q is not a valid URL; include the scheme, e.g. https://example.com", target)
		}
		return output.Record{}, err
	}
	rec := output.BuildRecord(o.Result)
	switch {
	case quiet:
	case opts.summary:
		output.PrintSummaryLine(out, 0, 1, rec)
	default:
		output.PrintResult(out, o.Result)
	}
	if o.PersistErr != nil && !quiet {
		fmt.Fprintln(out, "  [!] history could not be saved; it is kept for this session only")
	}
	return rec, nil
}

// scanMany classifies targets concurrently and records them in input order.
func scanMany(cmd *cobra.Command, a *app, c *classifier.Client, store *history.Store, targets []string, opts *scanOptions, quiet bool) []output.Record {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a.log.Debug("batch scan", "targets", len(targets), "threads", opts.threads, "rate_limit", opts.rateLimit)
	r := runner.New(runner.Config{Threads: opts.threads, RateLimit: opts.rateLimit}, c)
	outcomes := r.Run(ctx, targets)

	records := make([]output.Record, len(outcomes))
	for i, oc := range outcomes {
		if oc.Err != nil {
			records[i] = output.BuildErrorRecord(oc.Target, oc.Err)
		} else {
			records[i] = output.BuildRecord(oc.Result)
			if store != nil {
				// failures are logged by the store and the run continues
				_, _ = store.Record(ctx, oc.Result)
			}
		}
		if quiet {
			continue
		}
		if opts.summary {
			output.PrintSummaryLine(out, i, len(outcomes), records[i])
			continue
		}
		fmt.Fprintf(out, "\n=== Target %d/%d ===\n", i+1, len(outcomes))
		output.PrintScanHeader(out, oc.Target)
		if oc.Err != nil {
			output.PrintError(out, oc.Target, oc.Err)
			continue
		}
		output.PrintResult(out, oc.Result)
	}
	return records
}

func buildTargets(args []string, file string, stdin io.Reader) ([]string, error) {
	targets := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			targets = append(targets, a)
		}
	}
	if file == "" {
		return targets, nil
	}
	lines, err := loadTargets(file, stdin)
	if err != nil {
		return nil, err
	}
	return append(targets, lines...), nil
}

// loadTargets reads one URL per line, skipping blanks and # comments. A path
// of "-" reads stdin.
func loadTargets(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open target list %q: %w", path, err)
		}
		defer file.Close()
		r = file
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	var entries []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("target list read error: %w", err)
	}
	return entries, nil
}

func buildParamsMap(a *app, opts *scanOptions, targetCount int) map[string]string {
	params := map[string]string{
		"endpoint":        a.cfg.Classifier.Endpoint,
		"timeout":         a.cfg.Classifier.Timeout.String(),
		"retries":         strconv.Itoa(a.cfg.Classifier.Retries),
		"threads":         strconv.Itoa(opts.threads),
		"rate_limit":      strconv.Itoa(opts.rateLimit),
		"history":         strconv.FormatBool(!opts.noHistory),
		"history_backend": a.cfg.History.Backend,
		"targets":         strconv.Itoa(targetCount),
	}
	if opts.file != "" {
		params["input_file"] = opts.file
	}
	if opts.outputJSONL != "" {
		params["output_jsonl"] = opts.outputJSONL
	}
	return params
}

func writeJSONLFile(cmd *cobra.Command, a *app, path string, records []output.Record) error {
	if path == "-" {
		return output.WriteJSONL(cmd.OutOrStdout(), records)
	}
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create JSONL directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSONL file: %w", err)
	}
	defer f.Close()
	if err := output.WriteJSONL(f, records); err != nil {
		return fmt.Errorf("write JSONL: %w", err)
	}
	a.log.Debug("JSONL report written", "path", path)
	return nil
}

func writeHTMLFile(a *app, path string, page output.PageData) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create HTML directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML file: %w", err)
	}
	defer f.Close()
	if err := output.RenderHTML(f, page); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	a.log.Debug("HTML report written", "path", path)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
