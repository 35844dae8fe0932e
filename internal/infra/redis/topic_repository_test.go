package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTopicRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		TopicLoader: memory.NewStaticTopicLoader(sampleTopics()),
	}
	repo := NewTopicRepository(client, loader, time.Minute)

	topic, err := repo.GetTopic(context.Background(), "Book Lessons", "the-dying-sun")
	if err != nil {
		t.Fatalf("get topic: %v", err)
	}
	if topic.ID != "t1" {
		t.Fatalf("unexpected topic: %+v", topic)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	if !mr.Exists("topics:docs") {
		t.Fatalf("expected topics:docs hash in redis")
	}

	// Second read should hit the cache, loader not incremented.
	_, _ = repo.ListTopics(context.Background(), "", "")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestTopicRepositoryInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		TopicLoader: memory.NewStaticTopicLoader(sampleTopics()),
	}
	repo := NewTopicRepository(client, loader, time.Minute)

	ctx := context.Background()
	if _, err := repo.ListTopics(ctx, "", ""); err != nil {
		t.Fatalf("list: %v", err)
	}

	repo.Invalidate(ctx)
	if mr.Exists("topics:docs") {
		t.Fatalf("invalidate should drop the cache key")
	}

	if _, err := repo.ListTopics(ctx, "", ""); err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d calls", loader.calls)
	}
}

func TestTopicRepositoryNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewTopicRepository(newClient(mr), memory.NewStaticTopicLoader(sampleTopics()), time.Minute)

	_, err = repo.GetTopic(context.Background(), "Past Papers", "the-dying-sun")
	if !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.TopicLoader
	calls int
}

func (l *countingLoader) LoadTopics(ctx context.Context) ([]domain.Topic, error) {
	l.calls++
	return l.TopicLoader.LoadTopics(ctx)
}

func sampleTopics() []domain.Topic {
	return []domain.Topic{
		{
			ID:          "t1",
			Class:       "Class 9",
			SubCategory: "Book Lessons",
			Topic:       "The Dying Sun",
			MCQs: []domain.Question{
				{Question: "q1", Options: []string{"wrong", "right"}, CorrectAnswer: "right"},
			},
		},
		{
			ID:          "t2",
			Class:       "Class 10",
			SubCategory: "Past Papers",
			Topic:       "2023 Paper",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
