package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/service"
)

var athleteID = primitive.NewObjectID()

type stubUsers struct{}

func (stubUsers) Create(context.Context, *domain.User) (primitive.ObjectID, error) {
	return primitive.NilObjectID, errors.New("not implemented")
}

func (stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if email == "athlete@example.com" {
		return &domain.User{ID: athleteID, Email: email}, nil
	}
	return nil, repository.ErrNotFound
}

func (stubUsers) GetByID(context.Context, primitive.ObjectID) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

// Embedded interfaces satisfy the methods a test does not exercise.
type stubWorkouts struct {
	service.WorkoutService
	bulk [][]domain.Workout
}

func (s *stubWorkouts) BulkCreate(_ context.Context, userID primitive.ObjectID, rows []domain.Workout) ([]domain.Workout, error) {
	if userID != athleteID {
		return nil, errors.New("wrong user")
	}
	s.bulk = append(s.bulk, rows)
	return csvimport.Filter(rows), nil
}

type stubPlans struct {
	service.PlanService
	plans     []domain.Plan
	generated []service.GenerateRequest
}

func (s *stubPlans) List(context.Context, primitive.ObjectID) ([]domain.Plan, error) {
	return s.plans, nil
}

func (s *stubPlans) Generate(_ context.Context, _ primitive.ObjectID, req service.GenerateRequest) (*domain.Plan, error) {
	s.generated = append(s.generated, req)
	return &domain.Plan{ID: primitive.NewObjectID(), Title: req.Distance + " Training Plan", Distance: req.Distance}, nil
}

type stubProfiles struct {
	service.ProfileService
	stored *domain.AthleteProfile
}

func (s *stubProfiles) Get(context.Context, primitive.ObjectID) (*domain.AthleteProfile, error) {
	if s.stored == nil {
		return nil, service.ErrProfileNotFound
	}
	p := *s.stored
	return &p, nil
}

func (s *stubProfiles) Save(_ context.Context, userID primitive.ObjectID, in service.ProfileInput) (*domain.AthleteProfile, error) {
	s.stored = &domain.AthleteProfile{UserID: userID, FullName: in.FullName, TrainingLevel: in.TrainingLevel, SportFocus: in.SportFocus, RaceDate: in.RaceDate}
	return s.stored, nil
}

func useApp(t *testing.T, a *app.App) (opened *int) {
	t.Helper()
	n := 0
	prev := openApp
	openApp = func(context.Context) (*app.App, error) {
		n++
		return a, nil
	}
	t.Cleanup(func() { openApp = prev })
	return &n
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRIPLAN_USER", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workouts.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = "date,sport,distance_m,duration_s,rpe,notes\n" +
	"2024-01-15,run,5000,1800,7,easy\n" +
	"2024-01-16,rowing,5000,1800,7,not a triathlon sport\n" +
	"2024-01-17,Swim,1500,35:00,,pool\n"

func TestTemplateNeedsNoAccount(t *testing.T) {
	opened := useApp(t, &app.App{})
	out, err := run(t, "template")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if strings.TrimSpace(out) != csvimport.Template {
		t.Fatalf("unexpected template output %q", out)
	}
	if *opened != 0 {
		t.Fatalf("template should not touch backends")
	}
}

func TestWorkoutImportRequiresUser(t *testing.T) {
	useApp(t, &app.App{Users: stubUsers{}})
	_, err := run(t, "workout", "import", writeCSV(t, sampleCSV))
	if err == nil || !strings.Contains(err.Error(), "--user") {
		t.Fatalf("expected missing user error, got %v", err)
	}
}

func TestWorkoutImportUnknownUser(t *testing.T) {
	useApp(t, &app.App{Users: stubUsers{}})
	_, err := run(t, "--user", "nobody@example.com", "workout", "import", writeCSV(t, sampleCSV))
	if err == nil || !strings.Contains(err.Error(), "no account for nobody@example.com") {
		t.Fatalf("expected unknown account error, got %v", err)
	}
}

func TestWorkoutImportInsertsKeptRowsOnce(t *testing.T) {
	workouts := &stubWorkouts{}
	useApp(t, &app.App{Users: stubUsers{}, Workouts: workouts})

	out, err := run(t, "--user", "athlete@example.com", "workout", "import", writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(workouts.bulk) != 1 {
		t.Fatalf("expected one bulk insert, got %d", len(workouts.bulk))
	}
	rows := workouts.bulk[0]
	if len(rows) != 3 {
		t.Fatalf("expected all 3 rows handed over, got %d", len(rows))
	}
	if rows[2].Sport != domain.SportSwim || rows[2].DurationS != 2100 || rows[2].RPE != csvimport.DefaultRPE {
		t.Fatalf("row not transformed: %+v", rows[2])
	}
	if !strings.Contains(out, "Imported 2 workouts, skipped 1 rows") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWorkoutImportCustomMappingIncomplete(t *testing.T) {
	useApp(t, &app.App{Users: stubUsers{}, Workouts: &stubWorkouts{}})
	_, err := run(t, "--user", "athlete@example.com", "workout", "import", "--rpe-col", "effort", writeCSV(t, sampleCSV))
	var mi *csvimport.MappingIncomplete
	if !errors.As(err, &mi) || len(mi.Missing) != 1 || mi.Missing[0] != "rpe" {
		t.Fatalf("expected MappingIncomplete for rpe, got %v", err)
	}
}

func TestWorkoutImportDryRunWritesNothing(t *testing.T) {
	opened := useApp(t, &app.App{Users: stubUsers{}, Workouts: &stubWorkouts{}})
	out, err := run(t, "workout", "import", "--dry-run", writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if *opened != 0 {
		t.Fatalf("dry run should not open backends")
	}
	if !strings.Contains(out, "rowing") || !strings.Contains(out, "3 data rows in file") {
		t.Fatalf("unexpected preview output %q", out)
	}
}

func TestPlanListJSON(t *testing.T) {
	plans := &stubPlans{plans: []domain.Plan{{ID: primitive.NewObjectID(), Title: "Olympic Build", Distance: "Olympic"}}}
	useApp(t, &app.App{Users: stubUsers{}, Plans: plans})

	out, err := run(t, "--user", "athlete@example.com", "--json", "plan", "list")
	if err != nil {
		t.Fatalf("plan list: %v", err)
	}
	var got []domain.Plan
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got) != 1 || got[0].Title != "Olympic Build" {
		t.Fatalf("unexpected plans %+v", got)
	}
}

func TestPlanShowRejectsBadID(t *testing.T) {
	useApp(t, &app.App{Users: stubUsers{}})
	_, err := run(t, "--user", "athlete@example.com", "plan", "show", "nope")
	if err == nil || !strings.Contains(err.Error(), `invalid plan id "nope"`) {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestProfileShowWithoutProfile(t *testing.T) {
	useApp(t, &app.App{Users: stubUsers{}, Profiles: &stubProfiles{}})
	_, err := run(t, "--user", "athlete@example.com", "profile", "show")
	if err == nil || !strings.Contains(err.Error(), "no profile yet") {
		t.Fatalf("expected missing profile error, got %v", err)
	}
}

func TestProfileSetKeepsUnchangedFields(t *testing.T) {
	profiles := &stubProfiles{stored: &domain.AthleteProfile{FullName: "Ada", TrainingLevel: "Beginner", SportFocus: "swim", RaceDate: "2025-06-01"}}
	useApp(t, &app.App{Users: stubUsers{}, Profiles: profiles})

	out, err := run(t, "--user", "athlete@example.com", "profile", "set", "--level", "Advanced")
	if err != nil {
		t.Fatalf("profile set: %v", err)
	}
	got := profiles.stored
	if got.TrainingLevel != "Advanced" || got.FullName != "Ada" || got.SportFocus != "swim" || got.RaceDate != "2025-06-01" {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if !strings.Contains(out, "Advanced") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPlanGenerateLeavesProfileToService(t *testing.T) {
	plans := &stubPlans{}
	useApp(t, &app.App{Users: stubUsers{}, Plans: plans})

	if _, err := run(t, "--user", "athlete@example.com", "plan", "generate", "--distance", "Sprint"); err != nil {
		t.Fatalf("plan generate: %v", err)
	}
	if len(plans.generated) != 1 {
		t.Fatalf("expected one generate call, got %d", len(plans.generated))
	}
	if req := plans.generated[0]; req.Profile != (service.Profile{}) || req.Distance != "Sprint" {
		t.Fatalf("unexpected request %+v", req)
	}
}
