package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saumyapandey31/Phishnet/internal/output"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			output.PrintHistory(cmd.OutOrStdout(), store.Entries())
			return nil
		},
	}
	cmd.AddCommand(newHistoryClearCmd(a), newHistoryExportCmd(a))
	return cmd
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var jsonlPath, htmlPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export scan history as JSONL and/or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonlPath == "" && htmlPath == "" {
				jsonlPath = "-"
			}
			store, release, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			entries := store.Entries()
			records := make([]output.Record, len(entries))
			for i, e := range entries {
				records[i] = output.BuildHistoryRecord(e)
			}
			if jsonlPath != "" {
				if err := writeJSONLFile(cmd, a, jsonlPath, records); err != nil {
					return err
				}
			}
			if htmlPath != "" {
				views := make([]output.ResultView, len(records))
				for i, rec := range records {
					views[i] = output.BuildResultView(i, rec)
				}
				page := output.PageData{
					Title:       "PhishNet Scan History",
					GeneratedAt: time.Now().UTC(),
					Params: map[string]string{
						"history_backend": a.cfg.History.Backend,
						"capacity":        fmt.Sprint(store.Capacity()),
					},
					Summary: output.BuildSummary(records),
					Results: views,
				}
				if err := writeHTMLFile(a, htmlPath, page); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonlPath, "jsonl", "", "JSONL output file (- for stdout, the default when no format is given)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "HTML report output file")
	return cmd
}
