package service

import (
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutInput is the caller-supplied part of a Workout.
type WorkoutInput struct {
	Date      string       `json:"date"`
	Sport     domain.Sport `json:"sport"`
	DistanceM int          `json:"distance_m"`
	DurationS int          `json:"duration_s"`
	RPE       int          `json:"rpe"`
	Notes     string       `json:"notes"`
}

type WorkoutService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, userID primitive.ObjectID, from, to string) ([]domain.Workout, error)
	Update(ctx context.Context, userID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error
	// BulkCreate drops rows that fail csvimport.Keep and inserts the rest in one write.
	// A row's ImportID is kept so the write can be undone with DeleteImported.
	BulkCreate(ctx context.Context, userID primitive.ObjectID, workouts []domain.Workout) ([]domain.Workout, error)
	DeleteImported(ctx context.Context, userID, importID primitive.ObjectID) (int, error)
	WeeklySummary(ctx context.Context, userID primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error)
}

type workoutService struct {
	log         *logger.Logger
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, log *logger.Logger) WorkoutService {
	return &workoutService{
		log:         log.With("service", "WorkoutService"),
		workoutRepo: workoutRepo,
	}
}

func validDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

func validateWorkoutInput(in WorkoutInput) error {
	var p problems
	switch {
	case in.Date == "":
		p.add("date", "is required")
	case !validDate(in.Date):
		p.add("date", "must be YYYY-MM-DD")
	}
	if !in.Sport.Valid() {
		p.add("sport", "must be swim, bike or run")
	}
	if in.DistanceM < 1 {
		p.add("distance_m", "must be at least 1")
	}
	if in.DurationS < 1 {
		p.add("duration_s", "must be at least 1")
	}
	if in.RPE < 1 || in.RPE > 10 {
		p.add("rpe", "must be between 1 and 10")
	}
	return p.err()
}

func (s *workoutService) Create(ctx context.Context, userID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	w := &domain.Workout{
		UserID:    userID,
		Date:      in.Date,
		Sport:     in.Sport,
		DistanceM: in.DistanceM,
		DurationS: in.DurationS,
		RPE:       in.RPE,
		Notes:     strings.TrimSpace(in.Notes),
	}
	created, err := s.workoutRepo.Create(ctx, w)
	if err != nil {
		return nil, persistErr("create", "workout", primitive.NilObjectID, err)
	}
	return created, nil
}

func (s *workoutService) Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	w, err := s.workoutRepo.GetByID(ctx, userID, workoutID)
	if err != nil {
		return nil, workoutRepoErr("get", workoutID, err)
	}
	return w, nil
}

// List returns workouts between from and to inclusive, most recent first.
// Either bound may be empty.
func (s *workoutService) List(ctx context.Context, userID primitive.ObjectID, from, to string) ([]domain.Workout, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var p problems
	if from != "" && !validDate(from) {
		p.add("from", "must be YYYY-MM-DD")
	}
	if to != "" && !validDate(to) {
		p.add("to", "must be YYYY-MM-DD")
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.List(ctx, userID, repository.WorkoutFilter{From: from, To: to})
	if err != nil {
		return nil, persistErr("list", "workout", primitive.NilObjectID, err)
	}
	return workouts, nil
}

func (s *workoutService) Update(ctx context.Context, userID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	w := &domain.Workout{
		ID:        workoutID,
		UserID:    userID,
		Date:      in.Date,
		Sport:     in.Sport,
		DistanceM: in.DistanceM,
		DurationS: in.DurationS,
		RPE:       in.RPE,
		Notes:     strings.TrimSpace(in.Notes),
	}
	updated, err := s.workoutRepo.Update(ctx, w)
	if err != nil {
		return nil, workoutRepoErr("update", workoutID, err)
	}
	return updated, nil
}

func (s *workoutService) Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, userID, workoutID); err != nil {
		return workoutRepoErr("delete", workoutID, err)
	}
	return nil
}

func (s *workoutService) BulkCreate(ctx context.Context, userID primitive.ObjectID, workouts []domain.Workout) ([]domain.Workout, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	kept := csvimport.Filter(workouts)
	for i := range kept {
		kept[i].ID = primitive.NilObjectID
		kept[i].UserID = userID
	}
	if len(kept) == 0 {
		return []domain.Workout{}, nil
	}
	created, err := s.workoutRepo.CreateMany(ctx, kept)
	if err != nil {
		return nil, persistErr("bulk create", "workout", primitive.NilObjectID, err)
	}
	s.log.Info("workouts imported", "user_id", userID.Hex(), "kept", len(kept), "dropped", len(workouts)-len(kept))
	return created, nil
}

func (s *workoutService) DeleteImported(ctx context.Context, userID, importID primitive.ObjectID) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	n, err := s.workoutRepo.DeleteByImport(ctx, userID, importID)
	if err != nil {
		return 0, persistErr("delete imported", "workout", importID, err)
	}
	return int(n), nil
}

// WeeklySummary totals the seven days starting at weekStart.
func (s *workoutService) WeeklySummary(ctx context.Context, userID primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	start, err := time.Parse(domain.DateLayout, weekStart)
	if err != nil {
		return nil, &ValidationError{Problems: []FieldProblem{{Field: "week_start", Message: "must be YYYY-MM-DD"}}}
	}
	end := start.AddDate(0, 0, 6).Format(domain.DateLayout)

	workouts, err := s.workoutRepo.List(ctx, userID, repository.WorkoutFilter{From: weekStart, To: end})
	if err != nil {
		return nil, persistErr("list", "workout", primitive.NilObjectID, err)
	}
	return summarize(weekStart, workouts), nil
}

func summarize(weekStart string, workouts []domain.Workout) *domain.WeeklySummary {
	sum := &domain.WeeklySummary{
		WeekStart: weekStart,
		Sports:    make(map[domain.Sport]domain.SportTotals, len(domain.Sports)),
	}
	for _, sport := range domain.Sports {
		sum.Sports[sport] = domain.SportTotals{}
	}
	for _, w := range workouts {
		t := sum.Sports[w.Sport]
		t.DistanceM += w.DistanceM
		t.DurationS += w.DurationS
		t.Count++
		sum.Sports[w.Sport] = t
		sum.TotalDistM += w.DistanceM
		sum.TotalDurS += w.DurationS
		sum.WorkoutCount++
	}
	return sum
}

func workoutRepoErr(op string, workoutID primitive.ObjectID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return persistErr(op, "workout", workoutID, err)
}
