package presence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// housekeepTTL bounds memory held by fully abandoned document sessions. It is
// far larger than any liveness window, so it never affects what ListActive
// returns; staleness stays a computed property of LastActive.
const housekeepTTL = 24 * time.Hour

// RedisRepository stores presence records as JSON fields of a per-document
// hash under key "presence:<docID>", so presence is shared across instances.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based presence repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "presence:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(docID string) string {
	return r.prefix + docID
}

func (r *RedisRepository) Upsert(ctx context.Context, docID string, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key(docID), rec.UserID, b).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.key(docID), housekeepTTL).Err()
}

func (r *RedisRepository) Get(ctx context.Context, docID, userID string) (*Record, error) {
	b, err := r.client.HGet(ctx, r.key(docID), userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RedisRepository) List(ctx context.Context, docID string) ([]*Record, error) {
	fields, err := r.client.HGetAll(ctx, r.key(docID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(fields))
	for _, raw := range fields {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (r *RedisRepository) Delete(ctx context.Context, docID, userID string) error {
	return r.client.HDel(ctx, r.key(docID), userID).Err()
}
