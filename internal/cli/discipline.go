package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/app/discipline"
	"github.com/grindset/grindset/internal/daemon"
	"github.com/grindset/grindset/internal/domain"
)

// ─── Discipline CLI ─────────────────────────────────────────────────────────

var flagHistoryLimit int

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 14, "number of days to show (0 for all)")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show your discipline score and level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(d *daemon.Daemon) error {
			habits, err := d.Habits.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			today := d.Engine.Today()
			score := d.Engine.ScoreAt(habits, today)
			saveSnapshot(cmd.Context(), d, today, score, len(habits))
			return render(cmd, score, func(w io.Writer) {
				printScore(w, score)
			})
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to work on next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(d *daemon.Daemon) error {
			habits, err := d.Habits.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			suggestions := d.Engine.Suggestions(habits)
			return render(cmd, suggestions, func(w io.Writer) {
				printSuggestions(w, suggestions)
			})
		})
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the past week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(d *daemon.Daemon) error {
			habits, err := d.Habits.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			review := d.Engine.Review(habits)
			return render(cmd, review, func(w io.Writer) {
				printReview(w, review)
			})
		})
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print a motivational quote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No storage needed.
		e := discipline.New(discipline.DefaultConfig(), zap.NewNop())
		q := e.Quote()
		return render(cmd, q, func(w io.Writer) {
			printQuote(w, q)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Score, suggestions, weekly review and a quote in one go",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(d *daemon.Daemon) error {
			habits, err := d.Habits.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			rep := d.Engine.Report(habits)
			saveSnapshot(cmd.Context(), d, rep.Date, rep.Score, len(habits))
			return render(cmd, rep, func(w io.Writer) {
				fmt.Fprintf(w, "Discipline report for %s\n\n", rep.Date)
				printScore(w, rep.Score)
				fmt.Fprintf(w, "  components: streak %.1f · completion %.1f · consistency %.1f\n\n",
					rep.Components.Streak, rep.Components.Completion, rep.Components.Consistency)
				printReview(w, rep.Review)
				fmt.Fprintln(w)
				printSuggestions(w, rep.Suggestions)
				fmt.Fprintln(w)
				printQuote(w, rep.Quote)
			})
		})
	},
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level tiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, domain.Levels, func(w io.Writer) {
			for _, l := range domain.Levels {
				fmt.Fprintf(w, "  %3d+  %s\n", l.MinScore, l.Name)
			}
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily score snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(d *daemon.Daemon) error {
			snaps, err := d.DB.ListScoreSnapshots(cmd.Context(), flagHistoryLimit)
			if err != nil {
				return err
			}
			if snaps == nil {
				snaps = []domain.ScoreSnapshot{}
			}
			return render(cmd, snaps, func(w io.Writer) {
				if len(snaps) == 0 {
					fmt.Fprintln(w, "No score history yet. Run 'grind score' to record today.")
					return
				}
				for _, s := range snaps {
					fmt.Fprintf(w, "  %s  %3d  %-12s %d habits\n", s.Date, s.Score.Score, s.Score.Level, s.HabitCount)
				}
			})
		})
	},
}

// ─── Helpers ────────────────────────────────────────────────────────────────

const progressWidth = 20

func printScore(w io.Writer, s domain.DisciplineScore) {
	fmt.Fprintf(w, "🏆 Discipline score: %d/100  (%s)\n", s.Score, s.Level)
	filled := s.Progress * progressWidth / 100
	fmt.Fprintf(w, "   [%s%s] %d%% to %s\n",
		strings.Repeat("█", filled), strings.Repeat("░", progressWidth-filled), s.Progress, s.NextLevel)
}

func printSuggestions(w io.Writer, suggestions []string) {
	fmt.Fprintln(w, "Suggestions:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}

func printReview(w io.Writer, r domain.WeeklyReview) {
	fmt.Fprintln(w, "Weekly review:")
	fmt.Fprintf(w, "  completion rate:  %d%%\n", r.CompletionRate)
	fmt.Fprintf(w, "  streak growth:    %.2f/day\n", r.StreakGrowth)
	fmt.Fprintf(w, "  top habit:        %s\n", orDash(r.TopHabit))
	fmt.Fprintf(w, "  improvement area: %s\n", orDash(r.ImprovementArea))
	fmt.Fprintf(w, "  %s\n", r.Summary)
}

func printQuote(w io.Writer, q domain.Quote) {
	fmt.Fprintf(w, "“%s”\n    — %s\n", q.Quote, q.Author)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// saveSnapshot records the score computed for day. Failures are not fatal to the command.
func saveSnapshot(ctx context.Context, d *daemon.Daemon, day domain.Date, score domain.DisciplineScore, habitCount int) {
	snap := domain.ScoreSnapshot{Date: day, Score: score, HabitCount: habitCount}
	if err := d.DB.SaveScoreSnapshot(ctx, snap); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: score history not saved: %v\n", err)
	}
}
