package service

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileInput is the onboarding form. Every field is required.
type ProfileInput struct {
	FullName      string `json:"full_name"`
	TrainingLevel string `json:"training_level"`
	SportFocus    string `json:"sport_focus"`
	RaceDate      string `json:"race_date"` // YYYY-MM-DD
}

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error)
	// Save creates the caller's profile or replaces it.
	Save(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*domain.AthleteProfile, error)
}

type profileService struct {
	log         *logger.Logger
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

func knownTrainingLevel(level string) bool {
	for _, l := range TrainingLevels {
		if level == l {
			return true
		}
	}
	return false
}

func validateProfileInput(in ProfileInput) error {
	var p problems
	if strings.TrimSpace(in.FullName) == "" {
		p.add("full_name", "is required")
	}
	if !knownTrainingLevel(in.TrainingLevel) {
		p.add("training_level", "must be one of %s", strings.Join(TrainingLevels, ", "))
	}
	if strings.TrimSpace(in.SportFocus) == "" {
		p.add("sport_focus", "is required")
	}
	switch {
	case in.RaceDate == "":
		p.add("race_date", "is required")
	case !validDate(in.RaceDate):
		p.add("race_date", "must be YYYY-MM-DD")
	}
	return p.err()
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, persistErr("get", "profile", userID, err)
	}
	return profile, nil
}

func (s *profileService) Save(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*domain.AthleteProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateProfileInput(in); err != nil {
		return nil, err
	}
	stored, err := s.profileRepo.Upsert(ctx, &domain.AthleteProfile{
		UserID:        userID,
		FullName:      strings.TrimSpace(in.FullName),
		TrainingLevel: in.TrainingLevel,
		SportFocus:    strings.TrimSpace(in.SportFocus),
		RaceDate:      in.RaceDate,
	})
	if err != nil {
		return nil, persistErr("upsert", "profile", userID, err)
	}
	s.log.Info("profile saved", "user_id", userID.Hex())
	return stored, nil
}
