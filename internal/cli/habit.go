package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/grindset/grindset/internal/daemon"
	"github.com/grindset/grindset/internal/domain"
)

// ─── Habit CLI ──────────────────────────────────────────────────────────────
// Habits are addressed by ID or by case-insensitive name.

var flagDate string

func init() {
	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitDoneCmd)
	habitCmd.AddCommand(habitMissCmd)
	habitCmd.AddCommand(habitRemoveCmd)

	for _, c := range []*cobra.Command{habitDoneCmd, habitMissCmd} {
		c.Flags().StringVarP(&flagDate, "date", "d", "", "day to record (YYYY-MM-DD, default today)")
	}
}

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits and check-ins",
}

// ─── habit add ──────────────────────────────────────────────────────────────

var habitAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Start tracking a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitAdd,
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	return withDaemon(func(d *daemon.Daemon) error {
		h, err := d.Habits.Create(cmd.Context(), name)
		if err != nil {
			return err
		}
		return render(cmd, h, func(w io.Writer) {
			fmt.Fprintf(w, "✅ Tracking %q (%s)\n", h.Name, shortID(h.ID))
			fmt.Fprintf(w, "   Check in with: grind habit done %q\n", h.Name)
		})
	})
}

// ─── habit list ─────────────────────────────────────────────────────────────

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with streaks",
	RunE:    runHabitList,
}

func runHabitList(cmd *cobra.Command, args []string) error {
	return withDaemon(func(d *daemon.Daemon) error {
		habits, err := d.Habits.List(cmd.Context())
		if err != nil {
			return err
		}
		if habits == nil {
			habits = []domain.Habit{}
		}
		return render(cmd, habits, func(w io.Writer) {
			if len(habits) == 0 {
				fmt.Fprintln(w, "No habits tracked.")
				fmt.Fprintln(w, "Use 'grind habit add <name>' to start one.")
				return
			}
			fmt.Fprintf(w, "Habits (%d):\n", len(habits))
			for _, h := range habits {
				fmt.Fprintf(w, "  • %-20s streak %-3d %s\n", h.Name, h.Streak, lastDone(h))
			}
		})
	})
}

// lastDone describes the latest completed day relative to now.
func lastDone(h domain.Habit) string {
	last, ok := h.LastCompleted()
	if !ok {
		return "never done"
	}
	return fmt.Sprintf("last done %s (%s of %s check-ins)",
		humanize.Time(last.Time()),
		humanize.Comma(int64(h.CompletedCount())),
		humanize.Comma(int64(len(h.Completions))))
}

// ─── habit done / miss ──────────────────────────────────────────────────────

var habitDoneCmd = &cobra.Command{
	Use:   "done HABIT",
	Short: "Record a completed day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHabitRecord(cmd, args[0], true)
	},
}

var habitMissCmd = &cobra.Command{
	Use:   "miss HABIT",
	Short: "Record a missed day (resets the streak)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHabitRecord(cmd, args[0], false)
	},
}

func runHabitRecord(cmd *cobra.Command, ref string, completed bool) error {
	return withDaemon(func(d *daemon.Daemon) error {
		ctx := cmd.Context()

		day := d.Habits.Today()
		if flagDate != "" {
			parsed, err := domain.ParseDate(flagDate)
			if err != nil {
				return err
			}
			day = parsed
		}

		target, err := d.Habits.Resolve(ctx, ref)
		if err != nil {
			return err
		}
		h, err := d.Habits.Record(ctx, target.ID, day, completed)
		if err != nil {
			return err
		}
		return render(cmd, h, func(w io.Writer) {
			if completed {
				fmt.Fprintf(w, "🔥 %s done for %s. Streak: %d\n", h.Name, day, h.Streak)
				return
			}
			fmt.Fprintf(w, "⏸️  %s missed on %s. Streak reset.\n", h.Name, day)
		})
	})
}

// ─── habit rm ───────────────────────────────────────────────────────────────

var habitRemoveCmd = &cobra.Command{
	Use:     "rm HABIT",
	Aliases: []string{"remove"},
	Short:   "Stop tracking a habit and delete its history",
	Args:    cobra.ExactArgs(1),
	RunE:    runHabitRemove,
}

func runHabitRemove(cmd *cobra.Command, args []string) error {
	return withDaemon(func(d *daemon.Daemon) error {
		ctx := cmd.Context()
		h, err := d.Habits.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		if err := d.Habits.Delete(ctx, h.ID); err != nil {
			return err
		}
		return render(cmd, map[string]string{"removed": h.ID}, func(w io.Writer) {
			fmt.Fprintf(w, "✅ Habit %q removed.\n", h.Name)
		})
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
