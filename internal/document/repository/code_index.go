package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used as a secondary index from access code to
// document id (optional). Keeps find-by-code O(1) instead of a keyspace scan.
var codeIndexClient *redis.Client

// SetCodeIndexClient configures the Redis client used for the access-code index.
// Safe to call with nil to disable the index.
func SetCodeIndexClient(c *redis.Client) {
	codeIndexClient = c
}

func codeKey(code string) string {
	return "code:" + code
}

// IndexAccessCode records code -> docID. No-op without a configured client.
func IndexAccessCode(ctx context.Context, code, docID string) error {
	if codeIndexClient == nil || code == "" {
		return nil
	}
	return codeIndexClient.Set(ctx, codeKey(code), docID, 0).Err()
}

// UnindexAccessCode drops a replaced code from the index.
func UnindexAccessCode(ctx context.Context, code string) error {
	if codeIndexClient == nil || code == "" {
		return nil
	}
	return codeIndexClient.Del(ctx, codeKey(code)).Err()
}

// LookupAccessCode resolves a code to a document id. Returns "" on miss or
// when no client is configured; callers fall back to the repository query.
func LookupAccessCode(ctx context.Context, code string) (string, error) {
	if codeIndexClient == nil {
		return "", nil
	}
	v, err := codeIndexClient.Get(ctx, codeKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return v, nil
}
