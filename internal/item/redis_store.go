package item

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore persists items as JSON blobs under item:<id>, with a
// membership set per freezer for listing.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func itemKey(id string) string {
	return "item:" + id
}

func freezerSetKey(freezerID string) string {
	return "items:freezer:" + freezerID
}

func (s *RedisStore) Create(ctx context.Context, it *FoodItem) (string, error) {
	it.ID = uuid.NewString()
	if err := s.save(ctx, it); err != nil {
		return "", err
	}
	return it.ID, nil
}

func (s *RedisStore) save(ctx context.Context, it *FoodItem) error {
	data, err := json.Marshal(it)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, itemKey(it.ID), data, 0)
	pipe.SAdd(ctx, freezerSetKey(it.FreezerID), it.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (*FoodItem, error) {
	data, err := s.client.Get(ctx, itemKey(id)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var it FoodItem
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *RedisStore) Update(ctx context.Context, it *FoodItem) error {
	// Fetch the stored record first so a freezer move keeps the
	// membership sets consistent.
	prev, err := s.Get(ctx, it.ID)
	if err != nil {
		return err
	}
	if prev.FreezerID != it.FreezerID {
		if err := s.client.SRem(ctx, freezerSetKey(prev.FreezerID), it.ID).Err(); err != nil {
			return err
		}
	}
	return s.save(ctx, it)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	// Get the item first to know which freezer set to clean up.
	it, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, itemKey(id))
	pipe.SRem(ctx, freezerSetKey(it.FreezerID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) ListByFreezer(
	ctx context.Context,
	owner string,
	freezerID string,
) ([]*FoodItem, error) {

	ids, err := s.client.SMembers(ctx, freezerSetKey(freezerID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]*FoodItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*goredis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != goredis.Nil {
		return nil, err
	}

	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == goredis.Nil {
				// set member without a blob, e.g. a concurrent delete
				continue
			}
			return nil, err
		}
		var it FoodItem
		if err := json.Unmarshal([]byte(data), &it); err != nil {
			return nil, err
		}
		if it.OwnerID != owner {
			continue
		}
		items = append(items, &it)
	}
	return items, nil
}
