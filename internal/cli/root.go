// Package cli is the triplan command line: the same services the HTTP API
// exposes, run directly against the configured backends for one athlete.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/config"
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
)

var (
	configDir  string
	userEmail  string
	outputJSON bool
	verbose    bool
)

// openApp builds the service graph. Tests swap it for one backed by fakes.
var openApp = func(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New("dev", level)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "triplan",
		Short:         "Triathlon training plans and workout log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&userEmail, "user", os.Getenv("TRIPLAN_USER"), "Account email (default $TRIPLAN_USER)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newWorkoutCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newTemplateCmd())

	return cmd
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print an example workout CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), csvimport.Template)
			return err
		},
	}
}

// withUser opens the services, resolves --user and runs fn.
func withUser(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, userID primitive.ObjectID) error) error {
	email := strings.TrimSpace(userEmail)
	if email == "" {
		return errors.New("no account selected: pass --user or set TRIPLAN_USER")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no account for %s", email)
		}
		return fmt.Errorf("look up account: %w", err)
	}
	return fn(ctx, a, user.ID)
}

func parseID(kind, s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
