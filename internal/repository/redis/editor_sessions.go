package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/editor"
	"alcyxob/triplan/internal/repository"
)

const defaultSessionTTL = 24 * time.Hour

type editorSessions struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewEditorSessionRepository stores editor working copies as JSON values.
// Each write refreshes the key's TTL, so an idle session expires on its own.
func NewEditorSessionRepository(rdb goredis.Cmdable, ttl time.Duration) repository.EditorSessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &editorSessions{rdb: rdb, ttl: ttl}
}

func sessionKey(userID, planID primitive.ObjectID) string {
	return fmt.Sprintf("editor:%s:%s", userID.Hex(), planID.Hex())
}

func (s *editorSessions) Get(ctx context.Context, userID, planID primitive.ObjectID) (*editor.State, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(userID, planID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var state editor.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode editor session: %w", err)
	}
	return &state, nil
}

func (s *editorSessions) Put(ctx context.Context, userID, planID primitive.ObjectID, state editor.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(userID, planID), raw, s.ttl).Err()
}

func (s *editorSessions) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	return s.rdb.Del(ctx, sessionKey(userID, planID)).Err()
}
