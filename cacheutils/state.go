package cacheutils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

const (
	stateKeyPrefix = "oauth_state:"
	stateTTL       = 10 * time.Minute
)

// StateStore issues single-use OAuth state values and keeps them in Redis
// until the callback consumes them.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client, ttl: stateTTL}
}

// Issue generates and stores a new state value.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := xid.New().String()
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Consume reports whether state was issued and not yet used, deleting it.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
