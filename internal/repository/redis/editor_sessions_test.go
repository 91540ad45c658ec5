package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/config"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/editor"
	"alcyxob/triplan/internal/repository"
)

func TestSessionKeyIsScopedByUserAndPlan(t *testing.T) {
	user := primitive.NewObjectID()
	planA := primitive.NewObjectID()
	planB := primitive.NewObjectID()

	if sessionKey(user, planA) == sessionKey(user, planB) {
		t.Fatalf("keys for different plans collide")
	}
	if got, want := sessionKey(user, planA), "editor:"+user.Hex()+":"+planA.Hex(); got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

// Runs against a real server when REDIS_ADDR is set.
func TestEditorSessionRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := NewClient(config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewEditorSessionRepository(rdb, time.Minute)
	ctx := context.Background()
	user, plan := primitive.NewObjectID(), primitive.NewObjectID()

	if _, err := repo.Get(ctx, user, plan); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	state := editor.State{
		Plan: domain.Plan{
			ID:    plan,
			Title: "Sprint",
			Weeks: []domain.Week{{Week: 1, Days: []domain.Day{{Day: 1, Sessions: []domain.Session{
				{Sport: domain.SportSwim, DistanceM: 750, DurationS: 900, Intensity: domain.IntensityEasy},
			}}}}},
		},
		Dirty: true,
	}
	if err := repo.Put(ctx, user, plan, state); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := repo.Get(ctx, user, plan)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Dirty || got.Plan.Title != "Sprint" || got.Plan.Weeks[0].Days[0].Sessions[0].DistanceM != 750 {
		t.Fatalf("unexpected state: %+v", got)
	}

	if err := repo.Delete(ctx, user, plan); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, user, plan); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
