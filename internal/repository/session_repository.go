package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository tracks active login sessions keyed by token. A token is
// honored only while its session record exists; logout deletes the record
// and leaves the token's cryptographic validity irrelevant.
type SessionRepository interface {
	Record(ctx context.Context, token string, userID int64) error
	IsActive(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository returns a Redis-backed implementation. A zero ttl
// stores sessions without expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &sessionRepository{client: client, ttl: ttl}
}

func (r *sessionRepository) Record(ctx context.Context, token string, userID int64) error {
	return r.client.Set(ctx, sessionKeyPrefix+token, strconv.FormatInt(userID, 10), r.ttl).Err()
}

func (r *sessionRepository) IsActive(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string) error {
	// DEL on a missing key is a no-op, so revocation is idempotent.
	return r.client.Del(ctx, sessionKeyPrefix+token).Err()
}
