package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"gramture-service/internal/domain"
)

// ForumStore keeps forum threads and per-topic comment lists in memory.
type ForumStore struct {
	mu       sync.Mutex
	threads  map[string]domain.ForumThread
	comments map[string][]domain.Comment // subCategory|topicID
	seq      int
}

func NewForumStore() *ForumStore {
	return &ForumStore{
		threads:  make(map[string]domain.ForumThread),
		comments: make(map[string][]domain.Comment),
	}
}

func commentKey(subCategory, topicID string) string {
	return domain.Normalize(subCategory) + "|" + topicID
}

// ListThreads returns threads newest first.
func (s *ForumStore) ListThreads(_ context.Context) ([]domain.ForumThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	threads := make([]domain.ForumThread, 0, len(s.threads))
	for _, t := range s.threads {
		threads = append(threads, t)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Timestamp.After(threads[j].Timestamp)
	})
	return threads, nil
}

func (s *ForumStore) AddThread(_ context.Context, thread domain.ForumThread) (domain.ForumThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	thread.ID = "t" + strconv.Itoa(s.seq)
	s.threads[thread.ID] = thread
	return thread, nil
}

func (s *ForumStore) AddReply(_ context.Context, threadID string, reply domain.Comment) (domain.ForumThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thread, ok := s.threads[threadID]
	if !ok {
		return domain.ForumThread{}, domain.ErrThreadNotFound
	}
	s.seq++
	reply.ID = "r" + strconv.Itoa(s.seq)
	thread.Replies = append(thread.Replies, reply)
	s.threads[threadID] = thread
	return thread, nil
}

// ListComments returns a topic's comments, oldest first.
func (s *ForumStore) ListComments(_ context.Context, subCategory, topicID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Comment(nil), s.comments[commentKey(subCategory, topicID)]...), nil
}

func (s *ForumStore) AddComment(_ context.Context, subCategory, topicID string, comment domain.Comment) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	comment.ID = "c" + strconv.Itoa(s.seq)
	key := commentKey(subCategory, topicID)
	s.comments[key] = append(s.comments[key], comment)
	return comment, nil
}
