package chat

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// historyCacheKey holds the most recent messages as a Redis list,
// newest first.
const historyCacheKey = "chat:recent"

// Repository persists chat messages in Postgres and keeps a capped copy of
// the most recent ones in Redis for cheap history replay.
type Repository struct {
	db           *sql.DB
	cache        *redis.Client
	historyLimit int
	log          zerolog.Logger
}

// NewRepository wires the message store. cache may be nil, in which case
// history replay falls back to Postgres only.
func NewRepository(db *sql.DB, cache *redis.Client, historyLimit int, log zerolog.Logger) *Repository {
	return &Repository{db: db, cache: cache, historyLimit: historyLimit, log: log}
}

// SaveMessage durably appends one message. The cache update afterwards is
// best-effort: a Redis hiccup never fails the save.
func (r *Repository) SaveMessage(ctx context.Context, msg ChatMessage) error {
	query := "INSERT INTO messages (username, content, created_at) VALUES ($1, $2, $3)"
	if _, err := r.db.ExecContext(ctx, query, msg.Username, msg.Message, msg.CreatedAt); err != nil {
		return err
	}
	r.cacheMessage(ctx, msg)
	return nil
}

func (r *Repository) cacheMessage(ctx context.Context, msg ChatMessage) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	pipe := r.cache.TxPipeline()
	pipe.LPush(ctx, historyCacheKey, payload)
	pipe.LTrim(ctx, historyCacheKey, 0, int64(r.historyLimit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn().Err(err).Msg("failed to cache message")
	}
}

// RecentMessages returns up to historyLimit messages, oldest first, ready to
// replay to a new connection. Redis is tried first; any cache miss or error
// falls through to Postgres.
func (r *Repository) RecentMessages(ctx context.Context) ([]ChatMessage, error) {
	if msgs, ok := r.recentFromCache(ctx); ok {
		return msgs, nil
	}

	query := `
		SELECT id, username, content, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, r.historyLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newestFirst []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Username, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reverse(newestFirst), nil
}

func (r *Repository) recentFromCache(ctx context.Context) ([]ChatMessage, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.LRange(ctx, historyCacheKey, 0, int64(r.historyLimit-1)).Result()
	if err != nil || len(raw) == 0 {
		if err != nil {
			r.log.Warn().Err(err).Msg("history cache read failed")
		}
		return nil, false
	}
	newestFirst := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, false
		}
		newestFirst = append(newestFirst, msg)
	}
	return reverse(newestFirst), true
}

func reverse(msgs []ChatMessage) []ChatMessage {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}
