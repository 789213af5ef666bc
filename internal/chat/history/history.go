// Package history keeps a short per-session conversation log in Redis so the
// admin dashboard can show recent questions. It is best-effort: failures are
// the caller's to log, never to surface in a chat reply.
package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:history:"

// Entry is one exchanged message pair.
type Entry struct {
	Message string    `json:"message"`
	Reply   string    `json:"reply"`
	At      time.Time `json:"at"`
}

type Store struct {
	client *redis.Client
	limit  int64
	ttl    time.Duration
}

func NewStore(client *redis.Client, limit int, ttl time.Duration) *Store {
	return &Store{
		client: client,
		limit:  int64(limit),
		ttl:    ttl,
	}
}

// Append records one exchange for a session, trimming the list to the
// configured limit and refreshing the TTL.
func (s *Store) Append(ctx context.Context, session string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := keyPrefix + session
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, s.limit-1)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to limit most recent entries for a session, newest first.
func (s *Store) Recent(ctx context.Context, session string, limit int64) ([]Entry, error) {
	raw, err := s.client.LRange(ctx, keyPrefix+session, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue // skip corrupt entries
		}
		out = append(out, e)
	}
	return out, nil
}
