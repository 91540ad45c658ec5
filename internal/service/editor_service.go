package service

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/editor"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/schedule"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNoEditorSession = errors.New("no open editor session for this plan")

// EditorService drives an editor.Editor across requests. The working copy
// lives in the session store between calls; only Save touches the plan.
type EditorService interface {
	// Open resumes the caller's working copy or starts one from the stored plan.
	Open(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error)
	Current(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error)
	Move(ctx context.Context, userID, planID primitive.ObjectID, weekIndex, dayIndex, from, to int) (editor.State, error)
	Reorder(ctx context.Context, userID, planID primitive.ObjectID, weekIndex, dayIndex int, order []int) (editor.State, error)
	Save(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error)
	Discard(ctx context.Context, userID, planID primitive.ObjectID) error
}

type editorService struct {
	log      *logger.Logger
	plans    PlanService
	sessions repository.EditorSessionRepository
}

func NewEditorService(plans PlanService, sessions repository.EditorSessionRepository, log *logger.Logger) EditorService {
	return &editorService{
		log:      log.With("service", "EditorService"),
		plans:    plans,
		sessions: sessions,
	}
}

func (s *editorService) Open(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error) {
	ed, err := s.load(ctx, userID, planID, true)
	if err != nil {
		return editor.State{}, err
	}
	return ed.State(), nil
}

func (s *editorService) Current(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error) {
	ed, err := s.load(ctx, userID, planID, false)
	if err != nil {
		return editor.State{}, err
	}
	return ed.State(), nil
}

func (s *editorService) Move(ctx context.Context, userID, planID primitive.ObjectID, weekIndex, dayIndex, from, to int) (editor.State, error) {
	return s.mutate(ctx, userID, planID, func(ed *editor.Editor) error {
		return ed.Move(weekIndex, dayIndex, from, to)
	})
}

// Reorder takes the new order as indexes into the day's current sessions,
// so the caller never resends session bodies.
func (s *editorService) Reorder(ctx context.Context, userID, planID primitive.ObjectID, weekIndex, dayIndex int, order []int) (editor.State, error) {
	return s.mutate(ctx, userID, planID, func(ed *editor.Editor) error {
		current, err := ed.Sessions(weekIndex, dayIndex)
		if err != nil {
			return err
		}
		next := make([]domain.Session, 0, len(order))
		for _, i := range order {
			if i < 0 || i >= len(current) {
				return schedule.ErrNotPermutation
			}
			next = append(next, current[i])
		}
		return ed.Reorder(weekIndex, dayIndex, next)
	})
}

func (s *editorService) Save(ctx context.Context, userID, planID primitive.ObjectID) (editor.State, error) {
	ed, err := s.load(ctx, userID, planID, false)
	if err != nil {
		return editor.State{}, err
	}
	wasDirty := ed.Dirty()
	if _, err := ed.Save(ctx, userID, s.plans); err != nil {
		return editor.State{}, err
	}
	if err := s.put(ctx, userID, planID, ed); err != nil {
		return editor.State{}, err
	}
	if wasDirty {
		s.log.Info("plan saved from editor", "user_id", userID.Hex(), "plan_id", planID.Hex())
	}
	return ed.State(), nil
}

func (s *editorService) Discard(ctx context.Context, userID, planID primitive.ObjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, userID, planID); err != nil {
		return persistErr("delete", "editor session", planID, err)
	}
	return nil
}

func (s *editorService) mutate(ctx context.Context, userID, planID primitive.ObjectID, fn func(*editor.Editor) error) (editor.State, error) {
	ed, err := s.load(ctx, userID, planID, true)
	if err != nil {
		return editor.State{}, err
	}
	if err := fn(ed); err != nil {
		return editor.State{}, err
	}
	if err := s.put(ctx, userID, planID, ed); err != nil {
		return editor.State{}, err
	}
	return ed.State(), nil
}

// load returns the stored working copy. With open set, a missing session is
// started from the persisted plan and stored.
func (s *editorService) load(ctx context.Context, userID, planID primitive.ObjectID, open bool) (*editor.Editor, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	state, err := s.sessions.Get(ctx, userID, planID)
	if err == nil {
		return editor.FromState(*state), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, persistErr("get", "editor session", planID, err)
	}
	if !open {
		return nil, ErrNoEditorSession
	}

	plan, err := s.plans.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	ed := editor.New(*plan)
	if err := s.put(ctx, userID, planID, ed); err != nil {
		return nil, err
	}
	return ed, nil
}

func (s *editorService) put(ctx context.Context, userID, planID primitive.ObjectID, ed *editor.Editor) error {
	if err := s.sessions.Put(ctx, userID, planID, ed.State()); err != nil {
		return persistErr("put", "editor session", planID, err)
	}
	return nil
}
