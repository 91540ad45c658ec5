package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/service"
	"alcyxob/triplan/internal/units"
)

func newWorkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log and review completed workouts",
	}

	cmd.AddCommand(
		newWorkoutAddCmd(),
		newWorkoutListCmd(),
		newWorkoutImportCmd(),
		newWorkoutSummaryCmd(),
	)

	return cmd
}

// --- workout add ---

func newWorkoutAddCmd() *cobra.Command {
	var (
		in       service.WorkoutInput
		sport    string
		duration string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log one workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Sport = domain.Sport(sport)
			in.DurationS = units.ParseDuration(duration)
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				w, err := a.Workouts.Create(ctx, userID, in)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, w)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s in %s on %s (%s)\n",
					w.Sport, units.FormatDistance(w.DistanceM), units.FormatDuration(w.DurationS), w.Date, w.ID.Hex())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Date, "date", time.Now().Format(domain.DateLayout), "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sport, "sport", "", "swim, bike or run")
	cmd.Flags().IntVar(&in.DistanceM, "distance", 0, "Distance in meters")
	cmd.Flags().StringVar(&duration, "duration", "", "Duration as seconds, MM:SS or H:MM:SS")
	cmd.Flags().IntVar(&in.RPE, "rpe", csvimport.DefaultRPE, "Perceived exertion 1-10")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Free-text notes")
	return cmd
}

// --- workout list ---

func newWorkoutListCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				workouts, err := a.Workouts.List(ctx, userID, from, to)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, workouts)
				}
				writeWorkouts(cmd, workouts)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date to include (YYYY-MM-DD)")
	return cmd
}

// --- workout import ---

func newWorkoutImportCmd() *cobra.Command {
	var (
		mapping domain.ColumnMapping
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import workouts from a local CSV file",
		Long: "Import workouts from a local CSV file.\n\n" +
			"Columns are matched by header name; the defaults match `triplan template`.\n" +
			"Rows missing a date, a known sport, a distance or a duration are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(raw) > service.MaxUploadBytes {
				return fmt.Errorf("%s is larger than %d bytes", args[0], service.MaxUploadBytes)
			}
			upload, err := csvimport.ParseUpload(string(raw))
			if err != nil {
				return err
			}

			if dryRun {
				preview, err := upload.Preview(mapping)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, preview)
				}
				writeWorkouts(cmd, preview)
				fmt.Fprintf(cmd.OutOrStdout(), "%d data rows in file\n", len(upload.Rows))
				return nil
			}

			rows, err := upload.Transform(mapping)
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				created, err := a.Workouts.BulkCreate(ctx, userID, rows)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, map[string]int{"imported": len(created), "skipped": len(rows) - len(created)})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d workouts, skipped %d rows\n", len(created), len(rows)-len(created))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mapping.Date, "date-col", "date", "Header of the date column")
	cmd.Flags().StringVar(&mapping.Sport, "sport-col", "sport", "Header of the sport column")
	cmd.Flags().StringVar(&mapping.DistanceM, "distance-col", "distance_m", "Header of the distance column")
	cmd.Flags().StringVar(&mapping.DurationS, "duration-col", "duration_s", "Header of the duration column")
	cmd.Flags().StringVar(&mapping.RPE, "rpe-col", "rpe", "Header of the RPE column")
	cmd.Flags().StringVar(&mapping.Notes, "notes-col", "notes", "Header of the notes column (optional)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the first rows as they would be imported")
	return cmd
}

// --- workout summary ---

func newWorkoutSummaryCmd() *cobra.Command {
	var weekStart string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals for one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if weekStart == "" {
				weekStart = domain.WeekStartOf(time.Now())
			}
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				sum, err := a.Workouts.WeeklySummary(ctx, userID, weekStart)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, sum)
				}
				writeSummary(cmd, sum)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (default: this Monday)")
	return cmd
}
