package app

import (
	"context"
	"sort"
	"time"

	"gramture-service/internal/domain"
)

// TopperStore persists the leaderboard aggregates and their social state.
type TopperStore interface {
	ListToppers(ctx context.Context) ([]domain.TopperEntry, error)
	LikeTopper(ctx context.Context, entryUserID, likerID string) (domain.TopperEntry, error)
	AddTopperComment(ctx context.Context, entryUserID string, comment domain.Comment) (domain.TopperEntry, error)
	ListTopperComments(ctx context.Context, entryUserID string) ([]domain.Comment, error)
}

// RankedTopper is a leaderboard entry with its position inside one bucket.
// Rank is the 1-based post-filter sort position; the top three get the
// decorative flag.
type RankedTopper struct {
	domain.TopperEntry
	Rank     int  `json:"rank"`
	TopThree bool `json:"topThree"`
	Accuracy int  `json:"accuracy"`
}

// Wall is the toppers wall: three overlapping recency buckets. An entry
// updated two hours ago appears in all three.
type Wall struct {
	Daily   []RankedTopper `json:"daily"`
	Weekly  []RankedTopper `json:"weekly"`
	Monthly []RankedTopper `json:"monthly"`
}

// ToppersService reads and ranks the leaderboard aggregates.
type ToppersService struct {
	store TopperStore
	now   func() time.Time
}

func NewToppersService(store TopperStore) *ToppersService {
	return &ToppersService{store: store, now: time.Now}
}

// WithClock overrides the service clock for deterministic tests.
func (s *ToppersService) WithClock(now func() time.Time) *ToppersService {
	s.now = now
	return s
}

// Wall loads all entries ordered by score and partitions them into
// daily (24h), weekly (7d) and monthly (30d) windows on LastUpdated.
func (s *ToppersService) Wall(ctx context.Context) (Wall, error) {
	entries, err := s.store.ListToppers(ctx)
	if err != nil {
		return Wall{}, err
	}
	// Stores are asked for score-desc order, but rank assignment depends
	// on it, so enforce it here too. The sort is stable; ties keep store
	// iteration order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	now := s.now()
	return Wall{
		Daily:   bucket(entries, now.Add(-24*time.Hour)),
		Weekly:  bucket(entries, now.Add(-7*24*time.Hour)),
		Monthly: bucket(entries, now.Add(-30*24*time.Hour)),
	}, nil
}

func bucket(entries []domain.TopperEntry, cutoff time.Time) []RankedTopper {
	ranked := make([]RankedTopper, 0, len(entries))
	for _, e := range entries {
		if e.LastUpdated.Before(cutoff) {
			continue
		}
		rank := len(ranked) + 1
		accuracy := 0
		if e.TotalQuestions > 0 {
			accuracy = int(domain.Percentage(e.Score, e.TotalQuestions) + 0.5)
		}
		ranked = append(ranked, RankedTopper{
			TopperEntry: e,
			Rank:        rank,
			TopThree:    rank <= 3,
			Accuracy:    accuracy,
		})
	}
	return ranked
}

// Like records a like from likerID on an entry. At most one like per user;
// repeats are a no-op and return the unchanged entry.
func (s *ToppersService) Like(ctx context.Context, entryUserID, likerID string) (domain.TopperEntry, error) {
	if likerID == "" {
		return domain.TopperEntry{}, domain.ErrLoginRequired
	}
	return s.store.LikeTopper(ctx, entryUserID, likerID)
}

// Comment appends a comment to an entry and bumps its comment count.
func (s *ToppersService) Comment(ctx context.Context, entryUserID string, comment domain.Comment) (domain.TopperEntry, error) {
	if err := ValidateComment(comment); err != nil {
		return domain.TopperEntry{}, err
	}
	comment.Timestamp = s.now()
	return s.store.AddTopperComment(ctx, entryUserID, comment)
}

// Comments lists an entry's comments, oldest first.
func (s *ToppersService) Comments(ctx context.Context, entryUserID string) ([]domain.Comment, error) {
	return s.store.ListTopperComments(ctx, entryUserID)
}
