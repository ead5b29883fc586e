package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/saumyapandey31/Phishnet/internal/config"
	"github.com/saumyapandey31/Phishnet/internal/riskcolor"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
	silent     bool
}

// NewRoot builds the phishnet command tree.
func NewRoot() *cobra.Command {
	return newRoot(&app{})
}

func newRoot(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "phishnet",
		Short:         "Check URLs for phishing risk and learn to spot scams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				riskcolor.Disable()
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cmd.ErrOrStderr(), cfg.Log.Level, opts.verbose)
			a.silent = opts.silent
			for _, w := range cfg.Warnings {
				a.log.Warn(w)
			}
			a.log.Debug("config loaded", "path", opts.configPath, "endpoint", cfg.Classifier.Endpoint, "history_backend", cfg.History.Backend)
			return nil
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate("phishnet {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", getenvDefault("PHISHNET_CONFIG", config.DefaultPath()), "config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	cmd.PersistentFlags().BoolVar(&opts.silent, "silent", false, "suppress banner and per-target output")

	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newQuizCmd())
	cmd.AddCommand(newThreatsCmd())
	cmd.AddCommand(newGuideCmd())

	return cmd
}

// Execute runs the root command and exits on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRoot()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, color.RedString("[-] Error: %v", err))
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
