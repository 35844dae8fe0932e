package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TopicRepository caches topic documents in Redis and falls back to a
// loader on cache miss. Documents are stored one per hash field:
//
//	HSET topics:docs {topicID} {topic JSON}
type TopicRepository struct {
	client *redis.Client
	loader memory.TopicLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

const topicsKey = "topics:docs"

func NewTopicRepository(client *redis.Client, loader memory.TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TopicRepository) all(ctx context.Context) ([]domain.Topic, error) {
	fields, err := r.client.HGetAll(ctx, topicsKey).Result()
	if err == nil && len(fields) > 0 {
		return decodeTopics(fields), nil
	}

	result, err, _ := r.sf.Do(topicsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, topicsKey).Result()
		if err == nil && len(fields) > 0 {
			return decodeTopics(fields), nil
		}

		topics, err := r.loader.LoadTopics(ctx)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		for _, t := range topics {
			raw, err := json.Marshal(t)
			if err != nil {
				continue
			}
			pipe.HSet(ctx, topicsKey, t.ID, raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, topicsKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Topic), nil
}

func decodeTopics(fields map[string]string) []domain.Topic {
	topics := make([]domain.Topic, 0, len(fields))
	for id, raw := range fields {
		var t domain.Topic
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		if t.ID == "" {
			t.ID = id
		}
		topics = append(topics, t)
	}
	return topics
}

// GetTopic finds the topic matching subcategory and slug-or-id.
func (r *TopicRepository) GetTopic(ctx context.Context, subCategory, ref string) (domain.Topic, error) {
	topics, err := r.all(ctx)
	if err != nil {
		return domain.Topic{}, err
	}
	for _, t := range topics {
		if t.Matches(subCategory, ref) {
			return t, nil
		}
	}
	return domain.Topic{}, domain.ErrTopicNotFound
}

// ListTopics filters the cached collection by class and subcategory.
func (r *TopicRepository) ListTopics(ctx context.Context, class, subCategory string) ([]domain.Topic, error) {
	topics, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Topic, 0, len(topics))
	for _, t := range topics {
		if class != "" && !t.InClass(class) {
			continue
		}
		if subCategory != "" && domain.Normalize(t.SubCategory) != domain.Normalize(subCategory) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Invalidate drops the cached collection after an admin write.
func (r *TopicRepository) Invalidate(ctx context.Context) {
	_ = r.client.Del(ctx, topicsKey).Err()
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
