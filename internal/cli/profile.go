package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/service"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your athlete profile",
	}
	cmd.AddCommand(newProfileShowCmd(), newProfileSetCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your athlete profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				profile, err := a.Profiles.Get(ctx, userID)
				if err != nil {
					if errors.Is(err, service.ErrProfileNotFound) {
						return errors.New("no profile yet: run `triplan profile set`")
					}
					return err
				}
				if outputJSON {
					return writeJSON(cmd, profile)
				}
				writeProfile(cmd, *profile)
				return nil
			})
		},
	}
}

// profile set only overwrites the fields whose flags were given.
func newProfileSetCmd() *cobra.Command {
	var in service.ProfileInput
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update your athlete profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				merged := service.ProfileInput{}
				current, err := a.Profiles.Get(ctx, userID)
				switch {
				case err == nil:
					merged = service.ProfileInput{
						FullName:      current.FullName,
						TrainingLevel: current.TrainingLevel,
						SportFocus:    current.SportFocus,
						RaceDate:      current.RaceDate,
					}
				case !errors.Is(err, service.ErrProfileNotFound):
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("name") {
					merged.FullName = in.FullName
				}
				if flags.Changed("level") {
					merged.TrainingLevel = in.TrainingLevel
				}
				if flags.Changed("focus") {
					merged.SportFocus = in.SportFocus
				}
				if flags.Changed("race-date") {
					merged.RaceDate = in.RaceDate
				}

				saved, err := a.Profiles.Save(ctx, userID, merged)
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, saved)
				}
				writeProfile(cmd, *saved)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&in.TrainingLevel, "level", "", "Training level: "+strings.Join(service.TrainingLevels, ", "))
	cmd.Flags().StringVar(&in.SportFocus, "focus", "", "Sport to emphasise")
	cmd.Flags().StringVar(&in.RaceDate, "race-date", "", "Target race date, YYYY-MM-DD")
	return cmd
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the coaching assistant a one-off question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, func(ctx context.Context, a *app.App, userID primitive.ObjectID) error {
				reply, err := a.Chat.Reply(ctx, userID, service.ChatRequest{Message: strings.Join(args, " ")})
				if err != nil {
					return err
				}
				if outputJSON {
					return writeJSON(cmd, map[string]string{"reply": reply})
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
				return err
			})
		},
	}
}
