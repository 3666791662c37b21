package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pajama/internal/bootstrap"
	settingsdto "pajama/internal/modules/settings/dto"
	"pajama/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pajama",
		Short:         "Guided bodyweight and stretch sessions in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default $PAJAMA_DATA_DIR or XDG data home)")

	root.AddCommand(newPlayCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newWorkoutCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newTimelineCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newSyncCmd(&dataDir))
	root.AddCommand(newAuthCmd(&dataDir))
	return root
}

// withApp builds the application graph for one command and releases it
// afterwards.
func withApp(dataDir string, fn func(*bootstrap.App) error) error {
	cfg, err := config.New(dataDir)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	runErr := fn(app)
	if err := app.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newPlayCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play [workout-id]",
		Short: "Pick and play a workout in the terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			workoutID := ""
			if len(args) == 1 {
				workoutID = args[0]
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(app, workoutID)
			})
		},
	}
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Completed session history"}

	history.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				entries, err := app.HistoryCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions yet")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d:%02d\t%d/%d\t%g×\n", e.CompletedAt, e.Title, e.DurationSecs/60, e.DurationSecs%60, e.PhasesCompleted, e.PhasesTotal, e.Multiplier)
				}
				return nil
			})
		},
	})

	history.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show totals, streak and this week's count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				stats, err := app.HistoryCLI.Stats(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %d\nstreak: %d days\nthis week: %d\n", stats.Total, stats.Streak, stats.ThisWeek)
				return nil
			})
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear --yes",
		Short: "Delete local history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("--yes is required")
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.HistoryCLI.Clear(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	history.AddCommand(clearCmd)
	return history
}

func newWorkoutCmd(dataDir *string) *cobra.Command {
	workout := &cobra.Command{Use: "workout", Short: "Built-in and custom workouts"}

	workout.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				workouts, err := app.WorkoutCLI.List(context.Background())
				if err != nil {
					return err
				}
				for _, w := range workouts {
					kind := "custom"
					if w.Builtin {
						kind = "builtin"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d phases\t%d:%02d\n", w.ID, kind, w.Title, w.PhaseCount, w.TotalSeconds/60, w.TotalSeconds%60)
				}
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a workout's phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				w, err := app.WorkoutCLI.Show(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ntitle: %s\ncategory: %s\n", w.ID, w.Title, w.Category)
				if w.Subtitle != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subtitle: %s\n", w.Subtitle)
				}
				for i, p := range w.Phases {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%02d %-7s %4ds %s\n", i+1, p.Type, p.Duration, p.Name)
				}
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "import <file.yaml|file.json>",
		Short: "Create a custom workout from a definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				w, err := app.WorkoutCLI.Import(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s)\n", w.Title, w.ID)
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a custom workout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				w, err := app.WorkoutCLI.Rename(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %q\n", w.ID, w.Title)
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.WorkoutCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "share <id>",
		Short: "Print a share code for a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.WorkoutCLI.Share(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Code)
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "receive <code>",
		Short: "Create a custom workout from a share code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				w, err := app.WorkoutCLI.Receive(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "received %s (%s)\n", w.Title, w.ID)
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "hide <id> <exercise>",
		Short: "Skip an exercise when playing a workout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.WorkoutCLI.Hide(context.Background(), args[0], args[1]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hidden %q in %s\n", args[1], args[0])
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "unhide <id> <exercise>",
		Short: "Restore a hidden exercise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.WorkoutCLI.Unhide(context.Background(), args[0], args[1]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored %q in %s\n", args[1], args[0])
				return nil
			})
		},
	})

	workout.AddCommand(&cobra.Command{
		Use:   "hidden <id>",
		Short: "List hidden exercises of a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				names, err := app.WorkoutCLI.Hidden(context.Background(), args[0])
				if err != nil {
					return err
				}
				if len(names) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing hidden")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
				return nil
			})
		},
	})
	return workout
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Playback preferences"}

	printSettings := func(cmd *cobra.Command, s settingsdto.SettingsOutput) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pace: %g×\nrest: %g×\ntts: %t\nannounce-hints: %t\nweekly-goal: %d\nsound: %t\nonboarded: %t\n",
			s.Multiplier, s.RestMultiplier, s.TTS, s.AnnounceHints, s.WeeklyGoal, s.Sound, s.OnboardingDone)
	}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Show(context.Background())
				if err != nil {
					return err
				}
				printSettings(cmd, s)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set pace, rest, weekly-goal, tts, announce-hints or sound",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Set(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				printSettings(cmd, s)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "preset <guided|quick>",
		Short: "Apply a settings preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Preset(context.Background(), args[0])
				if err != nil {
					return err
				}
				printSettings(cmd, s)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "onboard",
		Short: "Mark onboarding as done",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Onboard(context.Background())
				if err != nil {
					return err
				}
				printSettings(cmd, s)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Reset(context.Background())
				if err != nil {
					return err
				}
				printSettings(cmd, s)
				return nil
			})
		},
	})
	return settings
}

func newTimelineCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [workout-id]",
		Short: "Print the playback timeline with current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workoutID := ""
			if len(args) == 1 {
				workoutID = args[0]
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				t, err := app.TimelineCLI.Show(context.Background(), workoutID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s", t.Title, t.WorkoutID, t.Listing)
				return nil
			})
		},
	}
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Session lifecycle without the player"}

	session.AddCommand(&cobra.Command{
		Use:   "start [workout-id]",
		Short: "Start a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workoutID := ""
			if len(args) == 1 {
				workoutID = args[0]
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(context.Background(), workoutID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s workout=%s phases=%d total=%ds at=%s\n", out.SessionID, out.WorkoutID, len(out.Steps), out.TotalSeconds, out.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	})

	var sessionID string
	var duration, phases int
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Record the active session and sync",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Complete(context.Background(), sessionID, duration, phases)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session recorded: %s workout=%s phases=%d/%d duration=%ds\n", out.SessionID, out.WorkoutID, out.PhasesCompleted, out.PhasesTotal, out.DurationSecs)
				switch {
				case out.Synced:
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "synced")
				case out.SyncReason != "":
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "not synced: %s\n", out.SyncReason)
				}
				return nil
			})
		},
	}
	complete.Flags().StringVar(&sessionID, "session-id", "", "optional session id (defaults to active session)")
	complete.Flags().IntVar(&duration, "duration", 0, "seconds played (defaults to time since start)")
	complete.Flags().IntVar(&phases, "phases", -1, "phases completed (defaults to all)")

	session.AddCommand(complete)

	session.AddCommand(&cobra.Command{
		Use:   "abandon",
		Short: "Discard the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.SessionCLI.Abandon(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session abandoned")
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				active, err := app.SessionCLI.GetActive(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session: %s\nworkout: %s (%s)\nstarted: %s\ntotal: %ds\n", active.SessionID, active.Title, active.WorkoutID, active.StartedAt.Format(time.RFC3339), active.TotalSeconds)
				return nil
			})
		},
	})
	return session
}

func newSyncCmd(dataDir *string) *cobra.Command {
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Merge local data with the remote document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out := app.ReplicaCLI.Sync(context.Background())
				if !out.OK {
					return fmt.Errorf("sync failed: %s", out.Reason)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced: entries=%d workouts=%d settings=%t\n", out.Entries, out.Workouts, out.Settings)
				return nil
			})
		},
	}

	sync.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show sign-in and last sync state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				st, err := app.ReplicaCLI.Status(context.Background())
				if err != nil {
					return err
				}
				printStatus(cmd, st.SignedIn, st.Subject, st.ExpiresAt, st.Expired)
				if st.LastSyncedAt.IsZero() {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "last sync: never")
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last sync: %s\n", st.LastSyncedAt.Format(time.RFC3339))
				}
				if st.LastReason != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last result: ok=%t reason=%s\n", st.LastOK, st.LastReason)
				}
				return nil
			})
		},
	})
	return sync
}

func newAuthCmd(dataDir *string) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Remote account credentials"}

	auth.AddCommand(&cobra.Command{
		Use:   "login <token>",
		Short: "Store an account token issued by pajamad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ReplicaCLI.SignIn(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s until %s\n", out.Subject, out.ExpiresAt.Format(time.RFC3339))
				return nil
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.ReplicaCLI.SignOut(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				st, err := app.ReplicaCLI.Status(context.Background())
				if err != nil {
					return err
				}
				printStatus(cmd, st.SignedIn, st.Subject, st.ExpiresAt, st.Expired)
				return nil
			})
		},
	})
	return auth
}

func printStatus(cmd *cobra.Command, signedIn bool, subject string, expiresAt time.Time, expired bool) {
	if !signedIn {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
		return
	}
	state := "valid"
	if expired {
		state = "expired"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "account: %s\ntoken: %s", subject, state)
	if !expiresAt.IsZero() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), " until %s", expiresAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
}
