package app

import (
	"context"
	"time"

	"gramture-service/internal/domain"
)

// TopicRepository loads topic content (from cache/backing store).
type TopicRepository interface {
	GetTopic(ctx context.Context, subCategory, ref string) (domain.Topic, error)
	ListTopics(ctx context.Context, class, subCategory string) ([]domain.Topic, error)
}

// SessionRepository abstracts where live quiz sessions are held
// (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(key string, session *Session)
	Get(key string) (*Session, bool)
	Delete(key string)
}

// RecordStore persists attempt records and topper aggregates. A completion
// must be applied atomically: read the prior attempt, write the
// incremented record, and fold the topper aggregate in one unit.
type RecordStore interface {
	RecordCompletion(ctx context.Context, user domain.User, topic string, score, total int, now time.Time) (domain.AttemptRecord, error)
	GetAttempt(ctx context.Context, userID, topic string) (domain.AttemptRecord, error)
}

// QuizService owns the quiz-taking use cases: starting a session over a
// topic's question set and turning a submitted session into persisted
// records plus a certificate.
type QuizService struct {
	topics   TopicRepository
	sessions SessionRepository
	records  RecordStore
	now      func() time.Time
}

func NewQuizService(topics TopicRepository, sessions SessionRepository, records RecordStore) *QuizService {
	return &QuizService{topics: topics, sessions: sessions, records: records, now: time.Now}
}

// WithClock overrides the service clock for deterministic tests.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// SessionKey identifies a live session. Two tabs on the same topic share a
// key and therefore a session; the original site had the same property.
func SessionKey(userID, subCategory, ref string) string {
	return userID + "|" + domain.Normalize(subCategory) + "|" + ref
}

// StartSession loads the topic's questions and opens a fresh session,
// replacing any stale one under the same key.
func (s *QuizService) StartSession(ctx context.Context, user domain.User, subCategory, ref string) (*Session, domain.Topic, error) {
	topic, err := s.topics.GetTopic(ctx, subCategory, ref)
	if err != nil {
		return nil, domain.Topic{}, err
	}
	if len(topic.MCQs) == 0 {
		return nil, domain.Topic{}, domain.ErrNoQuestions
	}
	for _, q := range topic.MCQs {
		if err := q.Validate(); err != nil {
			return nil, domain.Topic{}, err
		}
	}
	session := NewSessionWithClock(topic.MCQs, s.now)
	s.sessions.Put(SessionKey(user.ID, subCategory, ref), session)
	return session, topic, nil
}

// EndSession discards a live session. Called when the client navigates
// away; nothing mid-flight is persisted.
func (s *QuizService) EndSession(user domain.User, subCategory, ref string) {
	s.sessions.Delete(SessionKey(user.ID, subCategory, ref))
}

// Complete persists a finished session: attempt record plus leaderboard
// aggregate in one transaction, then issues the certificate data. It is
// gated on authentication; anonymous users get ErrLoginRequired and no
// write happens.
func (s *QuizService) Complete(ctx context.Context, user domain.User, topic domain.Topic, result Result) (domain.Certificate, error) {
	if !user.Authenticated() {
		return domain.Certificate{}, domain.ErrLoginRequired
	}
	record, err := s.records.RecordCompletion(ctx, user, topic.Topic, result.Score, result.TotalQuestions, s.now())
	if err != nil {
		return domain.Certificate{}, err
	}
	return domain.Certificate{
		UserName:       user.Name,
		Topic:          topic.Topic,
		Score:          record.Score,
		TotalQuestions: record.TotalQuestions,
		Percentage:     result.Percentage,
		Rating:         record.Rating,
		AttemptNumber:  record.AttemptNumber,
		IssuedAt:       record.IssuedAt,
	}, nil
}
