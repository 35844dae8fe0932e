package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"gramture-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TopicLoader fetches the topic collection from a backing store.
type TopicLoader interface {
	LoadTopics(ctx context.Context) ([]domain.Topic, error)
}

// TopicRepository caches the topic collection with a TTL to avoid
// re-reading the whole collection on every page view, which is exactly
// what the site does per visit otherwise.
type TopicRepository struct {
	loader TopicLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Topic
	expiresAt time.Time
}

func NewTopicRepository(loader TopicLoader, ttl time.Duration) *TopicRepository {
	return &TopicRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *TopicRepository) all(ctx context.Context) ([]domain.Topic, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		topics := r.cached
		r.mu.RUnlock()
		return topics, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("topics", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			topics := r.cached
			r.mu.RUnlock()
			return topics, nil
		}
		r.mu.RUnlock()

		topics, err := r.loader.LoadTopics(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = topics
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Topic), nil
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

// ListTopics filters the collection by class and subcategory; empty
// arguments match everything.
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

// Invalidate drops the cached collection, forcing the next read through
// the loader. Admin writes call this.
func (r *TopicRepository) Invalidate(_ context.Context) {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func (r *TopicRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticTopicLoader serves a fixed topic list (tests/demos, and the
// no-database startup mode).
type StaticTopicLoader struct {
	topics []domain.Topic
}

func NewStaticTopicLoader(topics []domain.Topic) *StaticTopicLoader {
	return &StaticTopicLoader{topics: topics}
}

func (l *StaticTopicLoader) LoadTopics(_ context.Context) ([]domain.Topic, error) {
	return l.topics, nil
}
