package editor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingStore struct {
	calls int
	saved []domain.Week
	err   error
}

func (s *countingStore) ReplaceWeeks(ctx context.Context, userID, planID primitive.ObjectID, weeks []domain.Week) (*domain.Plan, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	s.saved = domain.CloneWeeks(weeks)
	return &domain.Plan{ID: planID, UserID: userID, Title: "stored", Weeks: domain.CloneWeeks(weeks), UpdatedAt: time.Now()}, nil
}

var (
	sessA = domain.Session{Sport: domain.SportSwim, DistanceM: 400, DurationS: 600, Intensity: domain.IntensityEasy, Notes: "A"}
	sessB = domain.Session{Sport: domain.SportBike, DistanceM: 20000, DurationS: 2400, Intensity: domain.IntensityModerate, Notes: "B"}
	sessC = domain.Session{Sport: domain.SportRun, DistanceM: 5000, DurationS: 1500, Intensity: domain.IntensityHard, Notes: "C"}
)

func testPlan() domain.Plan {
	return domain.Plan{
		ID:    primitive.NewObjectID(),
		Title: "Sprint build",
		Weeks: []domain.Week{
			{Week: 1, Days: []domain.Day{
				{Day: 1, Sessions: []domain.Session{sessA, sessB, sessC}},
				{Day: 2, Sessions: []domain.Session{sessC}},
			}},
			{Week: 2, Days: []domain.Day{
				{Day: 1, Sessions: []domain.Session{sessB}},
			}},
		},
	}
}

func TestMoveReordersOnlyTargetDay(t *testing.T) {
	ed := New(testPlan())
	before := ed.plan

	if err := ed.Move(0, 0, 0, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !ed.Dirty() {
		t.Fatalf("expected dirty after move")
	}

	got := ed.Plan().Weeks[0].Days[0].Sessions
	want := []domain.Session{sessB, sessC, sessA}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sessions = %v, want %v", got, want)
	}

	// untouched week is shared, untouched day in the touched week is equal
	if &ed.plan.Weeks[1].Days[0] != &before.Weeks[1].Days[0] {
		t.Fatalf("week 2 should share its days with the previous working copy")
	}
	if !reflect.DeepEqual(ed.plan.Weeks[0].Days[1], before.Weeks[0].Days[1]) {
		t.Fatalf("day 2 of week 1 changed")
	}
	// previous working copy is not mutated in place
	if !reflect.DeepEqual(before.Weeks[0].Days[0].Sessions, []domain.Session{sessA, sessB, sessC}) {
		t.Fatalf("previous working copy mutated: %v", before.Weeks[0].Days[0].Sessions)
	}
}

func TestNewCopiesThePlan(t *testing.T) {
	p := testPlan()
	ed := New(p)
	if err := ed.Move(0, 0, 0, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p.Weeks[0].Days[0].Sessions[0] != sessA {
		t.Fatalf("caller's plan was mutated")
	}
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	ed := New(testPlan())
	err := ed.Reorder(0, 0, []domain.Session{sessA, sessA, sessB})
	if !errors.Is(err, schedule.ErrNotPermutation) {
		t.Fatalf("expected ErrNotPermutation, got %v", err)
	}
	if ed.Dirty() {
		t.Fatalf("rejected reorder must not mark dirty")
	}
}

func TestReorderIndexOutOfRange(t *testing.T) {
	ed := New(testPlan())
	if err := ed.Reorder(5, 0, nil); !errors.Is(err, schedule.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := ed.Move(0, 9, 0, 1); !errors.Is(err, schedule.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := ed.Move(0, 0, 1, 1); err != nil || ed.Dirty() {
		t.Fatalf("same-index move should be a clean no-op, err=%v dirty=%v", err, ed.Dirty())
	}
}

func TestSaveTwiceWritesOnce(t *testing.T) {
	store := &countingStore{}
	ed := New(testPlan())
	user := primitive.NewObjectID()

	if err := ed.Move(0, 0, 2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	saved, err := ed.Save(context.Background(), user, store)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Title != "stored" {
		t.Fatalf("expected stored plan to become the working copy, got %q", saved.Title)
	}
	if ed.Dirty() {
		t.Fatalf("save should clear dirty")
	}
	if _, err := ed.Save(context.Background(), user, store); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one write, got %d", store.calls)
	}
	if store.saved[0].Days[0].Sessions[0] != sessC {
		t.Fatalf("stored weeks do not reflect the move: %v", store.saved[0].Days[0].Sessions)
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	store := &countingStore{err: errors.New("boom")}
	ed := New(testPlan())
	_ = ed.Move(0, 0, 0, 1)
	if _, err := ed.Save(context.Background(), primitive.NewObjectID(), store); err == nil {
		t.Fatalf("expected error")
	}
	if !ed.Dirty() {
		t.Fatalf("failed save must leave the working copy dirty")
	}
}

func TestStateRoundTrip(t *testing.T) {
	ed := New(testPlan())
	_ = ed.Move(0, 0, 0, 2)
	restored := FromState(ed.State())
	if !restored.Dirty() {
		t.Fatalf("dirty flag lost")
	}
	if !reflect.DeepEqual(restored.Plan(), ed.Plan()) {
		t.Fatalf("plan differs after restore")
	}
}
