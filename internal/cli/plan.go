package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/service"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate, inspect and edit training plans",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(),
		newPlanListCmd(),
		newPlanShowCmd(),
		newPlanMoveCmd(),
		newPlanDeleteCmd(),
	)

	return cmd
}

// --- plan generate ---

func newPlanGenerateCmd() *cobra.Command {
	var req service.GenerateRequest
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new 12-week plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				fmt.Fprintln(cmd.ErrOrStderr(), "Generating plan, this can take a few minutes...")
				plan, err := a.Plans.Generate(ctx, userID, req)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, plan)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s\n", plan.ID.Hex())
				writePlan(cmd, *plan, 1)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Profile.TrainingLevel, "level", "", "Training level: Beginner, Intermediate or Advanced (default: from profile)")
	cmd.Flags().StringVar(&req.Profile.SportFocus, "focus", "", "Sport to emphasise (default: from profile)")
	cmd.Flags().StringVar(&req.Distance, "distance", "", "Race distance, e.g. Sprint, Olympic, Half Ironman")
	return cmd
}

// --- plan list ---

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				plans, err := a.Plans.List(ctx, userID)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, plans)
				}
				writePlanList(cmd, plans)
				return nil
			})
		},
	}
}

// --- plan show ---

func newPlanShowCmd() *cobra.Command {
	var week int
	cmd := &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Print a plan week by week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				plan, err := a.Plans.Get(ctx, userID, planID)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, plan)
				}
				writePlan(cmd, *plan, week)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&week, "week", 0, "Only show this week number")
	return cmd
}

// --- plan move ---

func newPlanMoveCmd() *cobra.Command {
	var weekIndex, dayIndex, from, to int
	cmd := &cobra.Command{
		Use:   "move <plan-id>",
		Short: "Move a session within a day and save the plan",
		Long: "Move a session within a day and save the plan.\n\n" +
			"Week and day are 0-based positions in the plan, as are --from and --to.\n" +
			"Unsaved changes from an open editor session on the same plan are saved too.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				if _, err := a.Editor.Move(ctx, userID, planID, weekIndex, dayIndex, from, to); err != nil {
					return err
				}
				st, err := a.Editor.Save(ctx, userID, planID)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, st.Plan)
				}
				writePlan(cmd, st.Plan, st.Plan.Weeks[weekIndex].Week)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&weekIndex, "week", 0, "Week position (0-based)")
	cmd.Flags().IntVar(&dayIndex, "day", 0, "Day position within the week (0-based)")
	cmd.Flags().IntVar(&from, "from", 0, "Current session position")
	cmd.Flags().IntVar(&to, "to", 0, "New session position")
	return cmd
}

// --- plan delete ---

func newPlanDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				if err := a.Plans.Delete(ctx, userID, planID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", planID.Hex())
				return nil
			})
		},
	}
}
