package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"gramture-service/internal/domain"
)

// RecordStore keeps attempt records and topper aggregates in memory. The
// single mutex makes a completion an atomic read-modify-write, so two
// rapid completions cannot observe the same attempt number.
type RecordStore struct {
	mu       sync.Mutex
	attempts map[string]domain.AttemptRecord // userID|topic
	toppers  map[string]domain.TopperEntry   // userID
	comments map[string][]domain.Comment     // userID
	seq      int
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		attempts: make(map[string]domain.AttemptRecord),
		toppers:  make(map[string]domain.TopperEntry),
		comments: make(map[string][]domain.Comment),
	}
}

func attemptKey(userID, topic string) string {
	return userID + "|" + topic
}

// RecordCompletion applies one quiz completion: attempt record upsert with
// the incremented attempt number, topper aggregate fold, both under the
// store lock.
func (s *RecordStore) RecordCompletion(_ context.Context, user domain.User, topic string, score, total int, now time.Time) (domain.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var priorAttempt *domain.AttemptRecord
	if prev, ok := s.attempts[attemptKey(user.ID, topic)]; ok {
		priorAttempt = &prev
	}
	record := domain.NextAttempt(priorAttempt, user, topic, score, total, now)
	s.attempts[attemptKey(user.ID, topic)] = record

	var priorEntry *domain.TopperEntry
	if prev, ok := s.toppers[user.ID]; ok {
		priorEntry = &prev
	}
	s.toppers[user.ID] = domain.MergeTopper(priorEntry, user, topic, score, total, now)

	return record, nil
}

// GetAttempt returns the stored attempt record for (user, topic).
func (s *RecordStore) GetAttempt(_ context.Context, userID, topic string) (domain.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.attempts[attemptKey(userID, topic)]
	if !ok {
		return domain.AttemptRecord{}, domain.ErrEntryNotFound
	}
	return record, nil
}

// ListToppers returns all aggregates ordered by score descending.
func (s *RecordStore) ListToppers(_ context.Context) ([]domain.TopperEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.TopperEntry, 0, len(s.toppers))
	for _, e := range s.toppers {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}

// LikeTopper adds likerID to the entry's liked-by set; repeats no-op.
func (s *RecordStore) LikeTopper(_ context.Context, entryUserID, likerID string) (domain.TopperEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.toppers[entryUserID]
	if !ok {
		return domain.TopperEntry{}, domain.ErrEntryNotFound
	}
	if !entry.LikedByUser(likerID) {
		entry.LikedBy = append(entry.LikedBy, likerID)
		entry.Likes = len(entry.LikedBy)
		s.toppers[entryUserID] = entry
	}
	return entry, nil
}

// AddTopperComment appends a comment and bumps the entry's count.
func (s *RecordStore) AddTopperComment(_ context.Context, entryUserID string, comment domain.Comment) (domain.TopperEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.toppers[entryUserID]
	if !ok {
		return domain.TopperEntry{}, domain.ErrEntryNotFound
	}
	s.seq++
	comment.ID = "c" + strconv.Itoa(s.seq)
	s.comments[entryUserID] = append(s.comments[entryUserID], comment)
	entry.CommentCount = len(s.comments[entryUserID])
	s.toppers[entryUserID] = entry
	return entry, nil
}

// ListTopperComments returns an entry's comments, oldest first.
func (s *RecordStore) ListTopperComments(_ context.Context, entryUserID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Comment(nil), s.comments[entryUserID]...), nil
}
