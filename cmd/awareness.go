package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/saumyapandey31/Phishnet/internal/awareness"
)

func newQuizCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Test your phishing awareness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := awareness.Questions()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			quiz := awareness.NewQuiz(qs, rand.New(rand.NewSource(seed)))
			return runQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), quiz)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 = random)")
	return cmd
}

func runQuiz(in io.Reader, out io.Writer, quiz *awareness.Quiz) error {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	sc := bufio.NewScanner(in)

	for !quiz.Done() {
		q, _ := quiz.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", quiz.Position()+1, quiz.Len(), q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		var fb awareness.Feedback
		for {
			fmt.Fprint(out, "Your answer: ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return errors.New("quiz aborted")
			}
			choice, ok := parseChoice(sc.Text(), len(q.Options))
			if !ok {
				fmt.Fprintf(out, "Enter a number between 1 and %d.\n", len(q.Options))
				continue
			}
			var err error
			if fb, err = quiz.Answer(choice); err != nil {
				return err
			}
			break
		}

		if fb.Correct {
			_, _ = green.Fprintln(out, "Correct!")
		} else {
			_, _ = red.Fprintf(out, "Incorrect. The answer was %d) %s\n", fb.Answer+1, q.Options[fb.Answer])
		}
		fmt.Fprintln(out, fb.Explanation)
	}

	fmt.Fprintf(out, "\nQuiz complete! You scored %d out of %d (%d%%).\n", quiz.Score(), quiz.Len(), quiz.Percentage())
	return nil
}

// parseChoice accepts a 1-based number or a letter and returns a zero-based index.
func parseChoice(s string, n int) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= 'a' && s[0] < 'a'+byte(n) {
		return int(s[0] - 'a'), true
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func newThreatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "threats",
		Short: "List recently detected phishing domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := awareness.Threats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range ts {
				status := color.RedString("%s", t.Status)
				if strings.EqualFold(t.Status, "Blocked") {
					status = color.GreenString("%s", t.Status)
				}
				fmt.Fprintf(out, "%-30s %-26s %s  %s\n", t.Domain, t.Type, status, t.DetectedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show the phishing safety guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := awareness.Guide()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)
			for i, g := range gs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				_, _ = title.Fprintln(out, g.Title)
				for _, tip := range g.Tips {
					fmt.Fprintf(out, "  - %s\n", tip)
				}
			}
			return nil
		},
	}
}
