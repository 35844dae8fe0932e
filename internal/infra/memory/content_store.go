package memory

import (
	"context"
	"strconv"
	"sync"

	"gramture-service/internal/domain"
)

// ContentStore keeps admin-managed content in memory and doubles as the
// TopicLoader for the cache layer, so admin writes are visible after the
// cache is invalidated.
type ContentStore struct {
	mu            sync.Mutex
	classes       []string
	subCategories []string
	topics        []domain.Topic
	seq           int
}

func NewContentStore(seed []domain.Topic) *ContentStore {
	return &ContentStore{topics: append([]domain.Topic(nil), seed...)}
}

// LoadTopics implements TopicLoader.
func (s *ContentStore) LoadTopics(_ context.Context) ([]domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Topic(nil), s.topics...), nil
}

func (s *ContentStore) ListClasses(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.classes...), nil
}

func (s *ContentStore) AddClass(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = append(s.classes, name)
	return nil
}

func (s *ContentStore) ListSubCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subCategories...), nil
}

func (s *ContentStore) AddSubCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subCategories = append(s.subCategories, name)
	return nil
}

func (s *ContentStore) AddTopic(_ context.Context, topic domain.Topic) (domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	topic.ID = "topic" + strconv.Itoa(s.seq)
	s.topics = append(s.topics, topic)
	return topic, nil
}

func (s *ContentStore) UpdateTopic(_ context.Context, topic domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.topics {
		if s.topics[i].ID == topic.ID {
			s.topics[i] = topic
			return nil
		}
	}
	return domain.ErrTopicNotFound
}

func (s *ContentStore) DeleteTopic(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.topics {
		if s.topics[i].ID == id {
			s.topics = append(s.topics[:i], s.topics[i+1:]...)
			return nil
		}
	}
	return domain.ErrTopicNotFound
}
