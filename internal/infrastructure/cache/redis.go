package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// The idempotency middleware gives each guarded request a 2s budget for its
// SetNX/Get pair; per-command timeouts stay inside that so a slow redis
// degrades to 503 instead of queueing submissions.
const commandTimeout = 2 * time.Second

// OpenRedis connects the client backing the submission idempotency store
// and verifies the connection before handing it out.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  commandTimeout,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}
