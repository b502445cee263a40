package matching

import (
    "context"
    "fmt"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/google/uuid"
)

// GenerationLocker serializes batch generation for one (user, day) so two
// concurrent first-reads of the day cannot both write a batch. The database
// unique index is the hard guarantee; the lock just avoids doing the
// scoring work twice.
type GenerationLocker interface {
    Acquire(ctx context.Context, userID uuid.UUID, day string) (bool, error)
    Release(ctx context.Context, userID uuid.UUID, day string)
}

type redisLocker struct {
    client *redis.Client
    ttl    time.Duration
}

// NewRedisLocker builds a SETNX-based lock. The TTL bounds how long a
// crashed holder can block other generators.
func NewRedisLocker(client *redis.Client) GenerationLocker {
    return &redisLocker{client: client, ttl: 30 * time.Second}
}

func lockKey(userID uuid.UUID, day string) string {
    return fmt.Sprintf("matching:gen:%s:%s", userID, day)
}

func (l *redisLocker) Acquire(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
    return l.client.SetNX(ctx, lockKey(userID, day), 1, l.ttl).Result()
}

func (l *redisLocker) Release(ctx context.Context, userID uuid.UUID, day string) {
    l.client.Del(ctx, lockKey(userID, day))
}

// noopLocker is used when Redis is not configured; generation then relies
// on the unique index alone.
type noopLocker struct{}

func NewNoopLocker() GenerationLocker { return noopLocker{} }

func (noopLocker) Acquire(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
    return true, nil
}

func (noopLocker) Release(ctx context.Context, userID uuid.UUID, day string) {}
