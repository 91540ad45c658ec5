// Package editor holds a mutable working copy of a Plan between loads and saves.
package editor

import (
	"context"
	"fmt"

	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStore persists the weeks of a plan in one write and returns the
// stored, canonical plan.
type PlanStore interface {
	ReplaceWeeks(ctx context.Context, userID, planID primitive.ObjectID, weeks []domain.Week) (*domain.Plan, error)
}

// State is the serialisable form of an Editor.
type State struct {
	Plan  domain.Plan `json:"plan"`
	Dirty bool        `json:"dirty"`
}

// Editor owns a working copy of one plan. It is not safe for concurrent use;
// each editing session gets its own Editor.
type Editor struct {
	plan  domain.Plan
	dirty bool
}

// New starts a clean editor on a deep copy of plan.
func New(plan domain.Plan) *Editor {
	return &Editor{plan: plan.Clone()}
}

// FromState rebuilds an editor from a stored State.
func FromState(st State) *Editor {
	return &Editor{plan: st.Plan.Clone(), dirty: st.Dirty}
}

// State snapshots the editor for storage.
func (e *Editor) State() State {
	return State{Plan: e.plan.Clone(), Dirty: e.dirty}
}

// Plan returns a copy of the working copy.
func (e *Editor) Plan() domain.Plan { return e.plan.Clone() }

// Dirty reports whether the working copy has unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Reorder replaces the sessions of weeks[weekIndex].days[dayIndex] with
// sessions, which must be a reordering of the current ones. Only the touched
// week and day are copied; every other week shares its backing data with the
// previous working copy.
func (e *Editor) Reorder(weekIndex, dayIndex int, sessions []domain.Session) error {
	current, err := e.daySessions(weekIndex, dayIndex)
	if err != nil {
		return err
	}
	if !schedule.IsPermutation(current, sessions) {
		return schedule.ErrNotPermutation
	}

	weeks := make([]domain.Week, len(e.plan.Weeks))
	copy(weeks, e.plan.Weeks)

	week := weeks[weekIndex]
	days := make([]domain.Day, len(week.Days))
	copy(days, week.Days)
	days[dayIndex] = domain.Day{
		Day:      days[dayIndex].Day,
		Sessions: append([]domain.Session(nil), sessions...),
	}
	weeks[weekIndex] = domain.Week{Week: week.Week, Days: days}

	e.plan.Weeks = weeks
	e.dirty = true
	return nil
}

// Move drags the session at index from to index to within one day.
func (e *Editor) Move(weekIndex, dayIndex, from, to int) error {
	current, err := e.daySessions(weekIndex, dayIndex)
	if err != nil {
		return err
	}
	if from == to {
		if from < 0 || from >= len(current) {
			return fmt.Errorf("session %d: %w", from, schedule.ErrIndexOutOfRange)
		}
		return nil
	}
	next, err := schedule.MoveSession(current, from, to)
	if err != nil {
		return err
	}
	return e.Reorder(weekIndex, dayIndex, next)
}

// Save writes the whole weeks field through store when the working copy is
// dirty, adopts the stored plan and clears the dirty flag. Saving a clean
// editor performs no write.
func (e *Editor) Save(ctx context.Context, userID primitive.ObjectID, store PlanStore) (domain.Plan, error) {
	if !e.dirty {
		return e.Plan(), nil
	}
	saved, err := store.ReplaceWeeks(ctx, userID, e.plan.ID, e.plan.Weeks)
	if err != nil {
		return domain.Plan{}, err
	}
	e.plan = saved.Clone()
	e.dirty = false
	return e.Plan(), nil
}

// Sessions returns a copy of one day's sessions in their current order.
func (e *Editor) Sessions(weekIndex, dayIndex int) ([]domain.Session, error) {
	current, err := e.daySessions(weekIndex, dayIndex)
	if err != nil {
		return nil, err
	}
	return append([]domain.Session(nil), current...), nil
}

func (e *Editor) daySessions(weekIndex, dayIndex int) ([]domain.Session, error) {
	if weekIndex < 0 || weekIndex >= len(e.plan.Weeks) {
		return nil, fmt.Errorf("week %d of %d: %w", weekIndex, len(e.plan.Weeks), schedule.ErrIndexOutOfRange)
	}
	days := e.plan.Weeks[weekIndex].Days
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil, fmt.Errorf("day %d of %d: %w", dayIndex, len(days), schedule.ErrIndexOutOfRange)
	}
	return days[dayIndex].Sessions, nil
}
