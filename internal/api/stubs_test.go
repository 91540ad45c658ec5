package api

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/editor"
	"alcyxob/triplan/internal/service"
)

const goodToken = "good-token"

var testUserID = primitive.NewObjectID()

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, name, email, _ string) (*domain.User, error) {
	if email == "taken@example.com" {
		return nil, service.ErrUserAlreadyExists
	}
	return &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email}, nil
}

func (stubAuth) Login(_ context.Context, _, password string) (string, *domain.User, error) {
	if password != "correct horse" {
		return "", nil, service.ErrAuthenticationFailed
	}
	return goodToken, &domain.User{ID: testUserID}, nil
}

func (stubAuth) ParseToken(token string) (primitive.ObjectID, error) {
	if token != goodToken {
		return primitive.NilObjectID, service.ErrInvalidToken
	}
	return testUserID, nil
}

func (stubAuth) CurrentUser(_ context.Context, userID primitive.ObjectID) (*domain.User, error) {
	if userID != testUserID {
		return nil, service.ErrAuthenticationRequired
	}
	return &domain.User{ID: testUserID, Name: "Ada", Email: "ada@example.com"}, nil
}

type stubPlans struct {
	generate func(req service.GenerateRequest) (*domain.Plan, error)
	get      func(planID primitive.ObjectID) (*domain.Plan, error)
}

func (s stubPlans) Generate(_ context.Context, _ primitive.ObjectID, req service.GenerateRequest) (*domain.Plan, error) {
	return s.generate(req)
}

func (s stubPlans) List(context.Context, primitive.ObjectID) ([]domain.Plan, error) {
	return []domain.Plan{}, nil
}

func (s stubPlans) Get(_ context.Context, _ primitive.ObjectID, planID primitive.ObjectID) (*domain.Plan, error) {
	return s.get(planID)
}

func (s stubPlans) Update(context.Context, primitive.ObjectID, primitive.ObjectID, service.PlanUpdate) (*domain.Plan, error) {
	return nil, errors.New("not implemented")
}

func (s stubPlans) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return service.ErrPlanNotFound
}

func (s stubPlans) ReplaceWeeks(context.Context, primitive.ObjectID, primitive.ObjectID, []domain.Week) (*domain.Plan, error) {
	return nil, errors.New("not implemented")
}

type stubEditor struct {
	move func(week, day, from, to int) (editor.State, error)
}

func (s stubEditor) Open(context.Context, primitive.ObjectID, primitive.ObjectID) (editor.State, error) {
	return editor.State{}, nil
}

func (s stubEditor) Current(context.Context, primitive.ObjectID, primitive.ObjectID) (editor.State, error) {
	return editor.State{}, service.ErrNoEditorSession
}

func (s stubEditor) Move(_ context.Context, _, _ primitive.ObjectID, week, day, from, to int) (editor.State, error) {
	return s.move(week, day, from, to)
}

func (s stubEditor) Reorder(context.Context, primitive.ObjectID, primitive.ObjectID, int, int, []int) (editor.State, error) {
	return editor.State{}, nil
}

func (s stubEditor) Save(context.Context, primitive.ObjectID, primitive.ObjectID) (editor.State, error) {
	return editor.State{}, nil
}

func (s stubEditor) Discard(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

type stubWorkouts struct {
	lastWeekStart string
}

func (s *stubWorkouts) Create(_ context.Context, userID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	if in.RPE < 1 {
		return nil, &service.ValidationError{Problems: []service.FieldProblem{{Field: "rpe", Message: "must be between 1 and 10"}}}
	}
	return &domain.Workout{ID: primitive.NewObjectID(), UserID: userID, Date: in.Date, Sport: in.Sport, RPE: in.RPE}, nil
}

func (s *stubWorkouts) Get(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Workout, error) {
	return nil, service.ErrWorkoutNotFound
}

func (s *stubWorkouts) List(context.Context, primitive.ObjectID, string, string) ([]domain.Workout, error) {
	return []domain.Workout{}, nil
}

func (s *stubWorkouts) Update(context.Context, primitive.ObjectID, primitive.ObjectID, service.WorkoutInput) (*domain.Workout, error) {
	return nil, service.ErrWorkoutNotFound
}

func (s *stubWorkouts) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (s *stubWorkouts) BulkCreate(context.Context, primitive.ObjectID, []domain.Workout) ([]domain.Workout, error) {
	return nil, nil
}

func (s *stubWorkouts) DeleteImported(context.Context, primitive.ObjectID, primitive.ObjectID) (int, error) {
	return 0, nil
}

func (s *stubWorkouts) WeeklySummary(_ context.Context, _ primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error) {
	s.lastWeekStart = weekStart
	return &domain.WeeklySummary{WeekStart: weekStart, Sports: map[domain.Sport]domain.SportTotals{}}, nil
}

type stubImports struct {
	uploadedName string
	uploadedRaw  []byte
	commitErr    error
}

func (s *stubImports) Upload(_ context.Context, userID primitive.ObjectID, name string, raw []byte) (*domain.ImportJob, error) {
	s.uploadedName, s.uploadedRaw = name, raw
	return &domain.ImportJob{ID: primitive.NewObjectID(), UserID: userID, FileName: name, Headers: []string{"date"}, Status: domain.ImportUploaded}, nil
}

func (s *stubImports) SetMapping(context.Context, primitive.ObjectID, primitive.ObjectID, domain.ColumnMapping) ([]domain.Workout, error) {
	return nil, &csvimport.MappingIncomplete{Missing: []string{"rpe"}}
}

func (s *stubImports) Preview(context.Context, primitive.ObjectID, primitive.ObjectID) ([]domain.Workout, error) {
	return []domain.Workout{}, nil
}

func (s *stubImports) Commit(context.Context, primitive.ObjectID, primitive.ObjectID) (int, error) {
	if s.commitErr != nil {
		return 0, s.commitErr
	}
	return 7, nil
}

func (s *stubImports) SourceURL(context.Context, primitive.ObjectID, primitive.ObjectID) (string, error) {
	return "https://files.test/x.csv", nil
}

func (s *stubImports) Template() string { return "date,sport\n" }

type stubProfiles struct {
	saved *domain.AthleteProfile
}

func (s *stubProfiles) Get(context.Context, primitive.ObjectID) (*domain.AthleteProfile, error) {
	if s.saved == nil {
		return nil, service.ErrProfileNotFound
	}
	return s.saved, nil
}

func (s *stubProfiles) Save(_ context.Context, userID primitive.ObjectID, in service.ProfileInput) (*domain.AthleteProfile, error) {
	if in.TrainingLevel == "Expert" {
		return nil, &service.ValidationError{Problems: []service.FieldProblem{{Field: "training_level", Message: "must be one of Beginner, Intermediate, Advanced"}}}
	}
	s.saved = &domain.AthleteProfile{ID: primitive.NewObjectID(), UserID: userID, FullName: in.FullName, TrainingLevel: in.TrainingLevel, SportFocus: in.SportFocus, RaceDate: in.RaceDate}
	return s.saved, nil
}

type stubChat struct {
	last service.ChatRequest
	err  error
}

func (s *stubChat) Reply(_ context.Context, _ primitive.ObjectID, req service.ChatRequest) (string, error) {
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return "Build your aerobic base first.", nil
}
