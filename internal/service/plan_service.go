package service

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/generator"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/schedule"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPlanNotFound = errors.New("plan not found")

// TrainingLevels is the closed set accepted by Generate.
var TrainingLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Profile describes the athlete a plan is generated for.
type Profile struct {
	TrainingLevel string `json:"training_level"`
	SportFocus    string `json:"sport_focus"`
}

// GenerateRequest is the input to PlanService.Generate. A zero Profile means
// "use the caller's stored AthleteProfile".
type GenerateRequest struct {
	Profile  Profile `json:"profile"`
	Distance string  `json:"distance"` // race distance label, e.g. "Olympic"
}

// PlanUpdate replaces the title when non-empty and the weeks when non-nil.
type PlanUpdate struct {
	Title string        `json:"title"`
	Weeks []domain.Week `json:"weeks"`
}

type PlanService interface {
	Generate(ctx context.Context, userID primitive.ObjectID, req GenerateRequest) (*domain.Plan, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
	Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error)
	Update(ctx context.Context, userID, planID primitive.ObjectID, upd PlanUpdate) (*domain.Plan, error)
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
	// ReplaceWeeks makes the service usable as an editor.PlanStore.
	ReplaceWeeks(ctx context.Context, userID, planID primitive.ObjectID, weeks []domain.Week) (*domain.Plan, error)
}

type planService struct {
	log         *logger.Logger
	planRepo    repository.PlanRepository
	profileRepo repository.ProfileRepository
	gen         generator.Client
}

// NewPlanService creates a PlanService backed by repo and the generator client.
// profileRepo may be nil, in which case requests must always carry a profile.
func NewPlanService(planRepo repository.PlanRepository, profileRepo repository.ProfileRepository, gen generator.Client, log *logger.Logger) PlanService {
	return &planService{
		log:         log.With("service", "PlanService"),
		planRepo:    planRepo,
		profileRepo: profileRepo,
		gen:         gen,
	}
}

func validateGenerateRequest(req GenerateRequest) error {
	var p problems
	if !knownTrainingLevel(req.Profile.TrainingLevel) {
		p.add("profile.training_level", "must be one of %s", strings.Join(TrainingLevels, ", "))
	}
	if strings.TrimSpace(req.Profile.SportFocus) == "" {
		p.add("profile.sport_focus", "is required")
	}
	if strings.TrimSpace(req.Distance) == "" {
		p.add("distance", "is required")
	}
	return p.err()
}

// storedProfile returns the caller's onboarding answers, or a zero Profile
// when none are stored.
func (s *planService) storedProfile(ctx context.Context, userID primitive.ObjectID) (Profile, error) {
	if s.profileRepo == nil {
		return Profile{}, nil
	}
	stored, err := s.profileRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, nil
		}
		return Profile{}, persistErr("get", "profile", userID, err)
	}
	return Profile{TrainingLevel: stored.TrainingLevel, SportFocus: stored.SportFocus}, nil
}

// generatedPlan is the JSON object the generator is asked to return.
type generatedPlan struct {
	Title string        `json:"title"`
	Weeks []domain.Week `json:"weeks"`
}

// Generate asks the generator for a plan, validates it and stores it in one insert.
// Nothing is written unless the whole plan is well-formed.
func (s *planService) Generate(ctx context.Context, userID primitive.ObjectID, req GenerateRequest) (*domain.Plan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if req.Profile == (Profile{}) {
		stored, err := s.storedProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		req.Profile = stored
	}
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}

	system, user := generator.PlanPrompt(req.Profile.TrainingLevel, req.Profile.SportFocus, req.Distance)
	start := time.Now()
	raw, err := s.gen.Complete(ctx, system, user)
	if err != nil {
		s.log.Warn("plan generation failed", "user_id", userID.Hex(), "error", err)
		if errors.Is(err, generator.ErrUnavailable) {
			return nil, err
		}
		return nil, &GenerationFormatError{Err: err}
	}
	s.log.Info("plan generated", "user_id", userID.Hex(), "elapsed", time.Since(start).String())

	var out generatedPlan
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &GenerationFormatError{Err: err}
	}
	if err := schedule.ValidatePlan(out.Weeks); err != nil {
		return nil, &GenerationFormatError{Err: err}
	}

	title := strings.TrimSpace(out.Title)
	if title == "" {
		title = req.Distance + " Training Plan"
	}
	plan := &domain.Plan{
		UserID:   userID,
		Title:    title,
		Distance: req.Distance,
		Weeks:    out.Weeks,
	}
	created, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, persistErr("create", "plan", primitive.NilObjectID, err)
	}
	return created, nil
}

func (s *planService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistErr("list", "plan", primitive.NilObjectID, err)
	}
	return plans, nil
}

func (s *planService) Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, userID, planID)
	if err != nil {
		return nil, planRepoErr("get", planID, err)
	}
	return plan, nil
}

// Update validates replacement weeks before they reach the store.
func (s *planService) Update(ctx context.Context, userID, planID primitive.ObjectID, upd PlanUpdate) (*domain.Plan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if upd.Weeks != nil {
		if err := schedule.ValidatePlan(upd.Weeks); err != nil {
			return nil, err
		}
	}
	plan, err := s.planRepo.Update(ctx, userID, planID, strings.TrimSpace(upd.Title), upd.Weeks)
	if err != nil {
		return nil, planRepoErr("update", planID, err)
	}
	return plan, nil
}

func (s *planService) ReplaceWeeks(ctx context.Context, userID, planID primitive.ObjectID, weeks []domain.Week) (*domain.Plan, error) {
	if weeks == nil {
		weeks = []domain.Week{}
	}
	return s.Update(ctx, userID, planID, PlanUpdate{Weeks: weeks})
}

func (s *planService) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, userID, planID); err != nil {
		return planRepoErr("delete", planID, err)
	}
	s.log.Info("plan deleted", "user_id", userID.Hex(), "plan_id", planID.Hex())
	return nil
}

func planRepoErr(op string, planID primitive.ObjectID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return persistErr(op, "plan", planID, err)
}
