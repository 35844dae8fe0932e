package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gramture-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TopicLoader reads topic JSONB documents from Postgres. It sits behind
// the cache layer; every call is a full collection read, the way the site
// reads its topics collection.
type TopicLoader struct {
	pool *pgxpool.Pool
}

func NewTopicLoader(pool *pgxpool.Pool) *TopicLoader {
	return &TopicLoader{pool: pool}
}

func (l *TopicLoader) LoadTopics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data, created_at FROM topics ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var (
			id        string
			raw       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		var t domain.Topic
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("unmarshal topic %s: %w", id, err)
		}
		t.ID = id
		t.CreatedAt = createdAt
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
