package freezer

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore persists freezers as JSON blobs under freezer:<id>, with a
// membership set per owner for listing.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func freezerKey(id string) string {
	return "freezer:" + id
}

func ownerSetKey(owner string) string {
	return "freezers:owner:" + owner
}

func (s *RedisStore) Create(ctx context.Context, f *Freezer) (string, error) {
	f.ID = uuid.NewString()
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, freezerKey(f.ID), data, 0)
	pipe.SAdd(ctx, ownerSetKey(f.OwnerID), f.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return f.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Freezer, error) {
	data, err := s.client.Get(ctx, freezerKey(id)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var f Freezer
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, freezerKey(id))
	pipe.SRem(ctx, ownerSetKey(f.OwnerID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) ListByOwner(ctx context.Context, owner string) ([]*Freezer, error) {
	ids, err := s.client.SMembers(ctx, ownerSetKey(owner)).Result()
	if err != nil {
		return nil, err
	}
	freezers := make([]*Freezer, 0, len(ids))
	if len(ids) == 0 {
		return freezers, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*goredis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, freezerKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != goredis.Nil {
		return nil, err
	}

	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			return nil, err
		}
		var f Freezer
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return nil, err
		}
		freezers = append(freezers, &f)
	}
	return freezers, nil
}
