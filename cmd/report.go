package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saumyapandey31/Phishnet/internal/reports"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report phishing sites and follow their review",
	}
	cmd.AddCommand(newReportSubmitCmd(a), newReportTrackCmd(a), newReportMineCmd(a))
	return cmd
}

// withReports opens the reports service and turns a missing session into a
// user-facing message instead of an error.
func withReports(cmd *cobra.Command, a *app, action string, fn func(*reports.Service) error) error {
	svc, release, err := a.openReports(cmd.Context())
	if errors.Is(err, reports.ErrNotSignedIn) {
		fmt.Fprintf(cmd.OutOrStdout(), "You must be logged in to %s.\n", action)
		return nil
	}
	if err != nil {
		return err
	}
	defer release()
	return fn(svc)
}

func newReportSubmitCmd(a *app) *cobra.Command {
	var sub reports.Submission
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Report a phishing attempt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, a, "report phishing", func(svc *reports.Service) error {
				r, err := svc.Submit(cmd.Context(), sub)
				if err != nil {
					return fmt.Errorf("error submitting report: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Phishing attempt reported successfully.")
				fmt.Fprintf(out, "Tracking ID: %s\n", r.ReportID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sub.URL, "url", "", "suspicious URL")
	cmd.Flags().StringVar(&sub.Email, "email", "", "contact email (optional)")
	cmd.Flags().StringVar(&sub.Reason, "reason", reports.Reasons[0], "one of "+strings.Join(reports.Reasons, ", "))
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newReportTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-id>",
		Short: "Show the status of one of your reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, a, "track a report", func(svc *reports.Service) error {
				r, err := svc.Track(cmd.Context(), args[0])
				if errors.Is(err, reports.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No report found with that ID.")
					return nil
				}
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
}

func newReportMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, a, "view your reports", func(svc *reports.Service) error {
				list, err := svc.Mine(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "You haven't submitted any reports yet.")
					return nil
				}
				for i, r := range list {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printReport(out, r)
				}
				return nil
			})
		},
	}
}

func printReport(w io.Writer, r reports.Report) {
	fmt.Fprintf(w, "Tracking ID: %s\n", r.ReportID)
	fmt.Fprintf(w, "URL:         %s\n", r.URL)
	fmt.Fprintf(w, "Reason:      %s\n", r.Reason)
	fmt.Fprintf(w, "Status:      %s\n", r.Status)
	fmt.Fprintf(w, "Submitted:   %s\n", r.CreatedAt.Local().Format(time.DateTime))
}
