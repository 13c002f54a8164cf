package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersister keeps the session under the namespace key in Redis.
type RedisPersister struct {
	client *redis.Client
	key    string
	sealer *Sealer
}

func NewRedisPersister(client *redis.Client, namespace string, sealer *Sealer) *RedisPersister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisPersister{client: client, key: namespace, sealer: sealer}
}

func (p *RedisPersister) Load(ctx context.Context) (Session, bool, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	state, err := decode(data, p.sealer)
	if err != nil {
		return Session{}, false, err
	}
	return state, true, nil
}

func (p *RedisPersister) Save(ctx context.Context, state Session) error {
	data, err := encode(state, p.sealer)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
