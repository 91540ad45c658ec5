package service

import (
	"alcyxob/triplan/internal/generator"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxChatHistory is how many earlier turns are forwarded to the generator.
	MaxChatHistory = 20
	// MaxChatMessageLen bounds a single message in runes.
	MaxChatMessageLen = 4000
)

// ChatRequest is one question plus the conversation so far, oldest first.
type ChatRequest struct {
	Message      string           `json:"message"`
	Conversation []generator.Turn `json:"conversation"`
}

// ChatService answers free-form coaching questions with the generator.
// Conversations are not stored.
type ChatService interface {
	Reply(ctx context.Context, userID primitive.ObjectID, req ChatRequest) (string, error)
}

type chatService struct {
	log         *logger.Logger
	profileRepo repository.ProfileRepository
	gen         generator.Client
}

func NewChatService(profileRepo repository.ProfileRepository, gen generator.Client, log *logger.Logger) ChatService {
	return &chatService{
		log:         log.With("service", "ChatService"),
		profileRepo: profileRepo,
		gen:         gen,
	}
}

func validateChatRequest(req ChatRequest) error {
	var p problems
	switch n := len([]rune(req.Message)); {
	case strings.TrimSpace(req.Message) == "":
		p.add("message", "is required")
	case n > MaxChatMessageLen:
		p.add("message", "must be at most %d characters", MaxChatMessageLen)
	}
	for i, t := range req.Conversation {
		if t.Role != "user" && t.Role != "assistant" {
			p.add(fmt.Sprintf("conversation[%d].role", i), "must be user or assistant")
		}
	}
	return p.err()
}

func (s *chatService) Reply(ctx context.Context, userID primitive.ObjectID, req ChatRequest) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if err := validateChatRequest(req); err != nil {
		return "", err
	}

	var level, focus, raceDate string
	profile, err := s.profileRepo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		level, focus, raceDate = profile.TrainingLevel, profile.SportFocus, profile.RaceDate
	case !errors.Is(err, repository.ErrNotFound):
		s.log.Warn("chat without profile context", "user_id", userID.Hex(), "error", err)
	}

	history := req.Conversation
	if len(history) > MaxChatHistory {
		history = history[len(history)-MaxChatHistory:]
	}
	turns := make([]generator.Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, generator.Turn{Role: "user", Content: req.Message})

	reply, err := s.gen.Chat(ctx, generator.ChatPrompt(level, focus, raceDate), turns)
	if err != nil {
		s.log.Warn("chat reply failed", "user_id", userID.Hex(), "error", err)
		if errors.Is(err, generator.ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return strings.TrimSpace(reply), nil
}
