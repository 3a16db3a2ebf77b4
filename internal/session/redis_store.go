package session

import (
	"context"
	"sync"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

type redisStore struct {
	redisClient *redis.Client
	key         string
	// mu makes Update atomic within this process only.
	mu sync.Mutex
}

// NewRedisStore returns a Store that keeps the Session under StorageKey,
// optionally prefixed, in Redis. This allows several hosts to share one
// Session.
func NewRedisStore(redisClient *redis.Client, prefix string) Store {
	return &redisStore{
		redisClient: redisClient,
		key:         prefix + StorageKey,
	}
}

func (r *redisStore) Read(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(ctx)
}

func (r *redisStore) Write(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, s)
}

func (r *redisStore) Update(ctx context.Context, patch Patch) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return update(
		func() (*Session, error) {
			return r.read(ctx)
		},
		func(s Session) error {
			return r.write(ctx, s)
		},
		patch,
	)
}

func (r *redisStore) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.redisClient.WithContext(ctx).Del(r.key).Err(); err != nil {
		return errors.Wrapf(err, "error deleting session key %s", r.key)
	}
	return nil
}

func (r *redisStore) read(ctx context.Context) (*Session, error) {
	data, err := r.redisClient.WithContext(ctx).Get(r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading session key %s", r.key)
	}
	return decode(data, r.key), nil
}

func (r *redisStore) write(ctx context.Context, s Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.redisClient.WithContext(ctx).Set(r.key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "error writing session key %s", r.key)
	}
	return nil
}
