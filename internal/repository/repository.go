package repository

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/editor"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository keeps one AthleteProfile per user.
type ProfileRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error)
	Upsert(ctx context.Context, profile *domain.AthleteProfile) (*domain.AthleteProfile, error)
}

// PlanRepository stores plans with their weeks embedded in one document.
// Every lookup and mutation is scoped to the owning user.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error)
	GetByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) // newest first
	// Update replaces title (when non-empty) and weeks (when non-nil) and
	// returns the stored document.
	Update(ctx context.Context, userID, planID primitive.ObjectID, title string, weeks []domain.Week) (*domain.Plan, error)
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
}

// WorkoutFilter narrows a workout query. Empty dates are open bounds.
type WorkoutFilter struct {
	From string // inclusive, YYYY-MM-DD
	To   string // inclusive, YYYY-MM-DD
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	// CreateMany inserts all workouts in a single write.
	CreateMany(ctx context.Context, workouts []domain.Workout) ([]domain.Workout, error)
	GetByID(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, userID primitive.ObjectID, filter WorkoutFilter) ([]domain.Workout, error) // date descending
	Update(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error
	// DeleteByImport removes every workout written by one CSV commit.
	DeleteByImport(ctx context.Context, userID, importID primitive.ObjectID) (int64, error)
}

// ImportRepository keeps CSV import jobs between the upload, mapping and commit requests.
type ImportRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error)
	// SetMapping applies only while the job is uploaded or mapped; otherwise it returns ErrNotFound.
	SetMapping(ctx context.Context, userID, jobID primitive.ObjectID, mapping domain.ColumnMapping) error
	// ClaimCommit atomically moves a mapped job to committing and returns it.
	// It returns ErrNotFound when no mapped job matches, so at most one caller wins.
	ClaimCommit(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error)
	// ReleaseCommit moves a committing job back to mapped.
	ReleaseCommit(ctx context.Context, userID, jobID primitive.ObjectID) error
	// MarkCommitted moves a committing job to committed and records the count.
	MarkCommitted(ctx context.Context, userID, jobID primitive.ObjectID, imported int) error
}

// EditorSessionRepository holds editor working copies keyed by user and plan.
type EditorSessionRepository interface {
	Get(ctx context.Context, userID, planID primitive.ObjectID) (*editor.State, error)
	Put(ctx context.Context, userID, planID primitive.ObjectID, state editor.State) error
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
}
