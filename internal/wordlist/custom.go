package wordlist

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// customKey is the Redis set holding user-supplied words.
const customKey = "errant:custom_words"

// CustomStore wraps a Redis client to persist custom lexicon words shared
// across annotation runs and hosts.
type CustomStore struct {
	client *redis.Client
	key    string
}

// NewCustomStore creates a CustomStore with the provided Redis client.
func NewCustomStore(client *redis.Client) *CustomStore {
	return &CustomStore{client: client, key: customKey}
}

// Add inserts a word into the custom store.
func (cs *CustomStore) Add(ctx context.Context, word string) error {
	return cs.client.SAdd(ctx, cs.key, word).Err()
}

// Remove deletes a word from the custom store.
func (cs *CustomStore) Remove(ctx context.Context, word string) error {
	return cs.client.SRem(ctx, cs.key, word).Err()
}

// All returns all words in the custom store.
func (cs *CustomStore) All(ctx context.Context) ([]string, error) {
	return cs.client.SMembers(ctx, cs.key).Result()
}

// Merge loads every custom word into the wordlist.
func (cs *CustomStore) Merge(ctx context.Context, w *Wordlist) error {
	words, err := cs.All(ctx)
	if err != nil {
		return err
	}
	w.Add(words...)
	return nil
}
