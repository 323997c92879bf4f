// internal/pkg/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gfsams-portal/internal/domain/auth"
	xerrors "gfsams-portal/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Store keeps one auth.Token record per active session in Redis,
// keyed by an opaque session identifier. Records are replaced whole;
// there is no partial-field mutation.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore builds a Store. ttl is the session lifetime, independent of
// access-token expiry: an expired access token must stay resident so
// its refresh token can still be exchanged.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save writes the full record under the session id, resetting the TTL.
func (s *Store) Save(ctx context.Context, sid string, token *auth.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Get loads the record for a session id.
func (s *Store) Get(ctx context.Context, sid string) (*auth.Token, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if err == redis.Nil {
		return nil, xerrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var token auth.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session token: %w", err)
	}
	return &token, nil
}

// Delete removes the record. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (s *Store) key(sid string) string {
	return fmt.Sprintf("portal:session:%s", sid)
}
