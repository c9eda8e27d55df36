package shared

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmitGuard rejects a second submit of the same form from the same session
// while the first one is still outstanding.
type SubmitGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmitGuard constructs the guard. ttl bounds how long a crashed request
// can hold the slot.
func NewSubmitGuard(client *redis.Client, ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SubmitGuard{client: client, ttl: ttl}
}

// Acquire claims the submit slot for form in sessionID. The returned release
// func must be called once the submit finished, whatever its outcome.
func (g *SubmitGuard) Acquire(ctx context.Context, sessionID, form string) (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	if sessionID == "" || form == "" {
		return nil, errors.New("submit guard: session and form required")
	}
	key := "submit:" + sessionID + ":" + form
	ok, err := g.client.SetNX(ctx, key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmitInProgress
	}
	return func() {
		// The request context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = g.client.Del(releaseCtx, key).Err()
	}, nil
}
