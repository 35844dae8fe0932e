package app

import (
	"sync"
	"time"

	"gramture-service/internal/domain"
)

// Session is the per-visit quiz state machine. It is never persisted
// mid-flight; abandoning the quiz discards it. All methods are safe for
// the connection goroutine plus the timer goroutine.
type Session struct {
	mu         sync.Mutex
	questions  []domain.Question
	answers    map[int]int
	skipped    map[int]struct{}
	current    int
	startedAt  time.Time
	finishedAt time.Time
	finished   bool
	now        func() time.Time
}

// NewSession starts a session over the given questions.
func NewSession(questions []domain.Question) *Session {
	return NewSessionWithClock(questions, time.Now)
}

// NewSessionWithClock is test-only for deterministic timing.
func NewSessionWithClock(questions []domain.Question, now func() time.Time) *Session {
	return &Session{
		questions: questions,
		answers:   make(map[int]int),
		skipped:   make(map[int]struct{}),
		startedAt: now(),
		now:       now,
	}
}

// QuestionView is the client-facing shape of a question: everything except
// the correct answer and explanation, which are withheld until submit.
type QuestionView struct {
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answered  bool     `json:"answered"`
	Answer    int      `json:"answer"` // -1 when unanswered
	Skipped   bool     `json:"skipped"`
	CanNext   bool     `json:"canNext"`
	CanPrev   bool     `json:"canPrev"`
	CanSubmit bool     `json:"canSubmit"`
}

// QuestionResult reveals correctness for one question after submit.
type QuestionResult struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Chosen        int    `json:"chosen"` // -1 when unanswered
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// Result summarizes a finished session.
type Result struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     float64          `json:"percentage"`
	Rating         domain.Rating    `json:"rating"`
	ElapsedSeconds int              `json:"elapsedSeconds"`
	Questions      []QuestionResult `json:"questions"`
}

// SelectAnswer records (or overwrites) the answer for a question and clears
// its skip flag. Re-answering a revisited question is allowed.
func (s *Session) SelectAnswer(index, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.ErrSessionFinished
	}
	if index < 0 || index >= len(s.questions) {
		return domain.ErrValidation
	}
	if option < 0 || option >= len(s.questions[index].Options) {
		return domain.ErrValidation
	}
	s.answers[index] = option
	delete(s.skipped, index)
	return nil
}

// Skip marks the current question skipped and advances, except at the last
// question where it is a no-op on the pointer. Skip never requires an
// answer; that asymmetry with Next is deliberate.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.ErrSessionFinished
	}
	s.skipped[s.current] = struct{}{}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Next advances the pointer. It is only permitted once the current question
// has been answered; a skip does not count.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.ErrSessionFinished
	}
	if _, ok := s.answers[s.current]; !ok {
		return domain.ErrNotAnswered
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Prev moves the pointer back, bounded at the first question.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.ErrSessionFinished
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// Submit finishes the session. Only valid at the last question with that
// question answered. The timer freezes at this instant.
func (s *Session) Submit() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return Result{}, domain.ErrSessionFinished
	}
	if s.current != len(s.questions)-1 {
		return Result{}, domain.ErrNotLastQuestion
	}
	if _, ok := s.answers[s.current]; !ok {
		return Result{}, domain.ErrNotAnswered
	}
	s.finished = true
	s.finishedAt = s.now()
	return s.resultLocked(), nil
}

// Result returns the summary of a finished session.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return Result{}, domain.ErrNotLastQuestion
	}
	return s.resultLocked(), nil
}

func (s *Session) resultLocked() Result {
	score := domain.Score(s.questions, s.answers)
	total := len(s.questions)
	pct := domain.Percentage(score, total)

	results := make([]QuestionResult, total)
	for i, q := range s.questions {
		chosen, ok := s.answers[i]
		if !ok {
			chosen = -1
		}
		results[i] = QuestionResult{
			Index:         i,
			Question:      q.Question,
			Chosen:        chosen,
			Correct:       ok && chosen < len(q.Options) && q.Options[chosen] == q.CorrectAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	return Result{
		Score:          score,
		TotalQuestions: total,
		Percentage:     pct,
		Rating:         domain.RateScore(pct),
		ElapsedSeconds: s.elapsedLocked(),
		Questions:      results,
	}
}

// Current returns the client view of the question under the pointer.
func (s *Session) Current() QuestionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.questions[s.current]
	answer, answered := s.answers[s.current]
	if !answered {
		answer = -1
	}
	_, wasSkipped := s.skipped[s.current]
	last := s.current == len(s.questions)-1
	return QuestionView{
		Index:     s.current,
		Total:     len(s.questions),
		Question:  q.Question,
		Options:   q.Options,
		Answered:  answered,
		Answer:    answer,
		Skipped:   wasSkipped,
		CanNext:   answered && !last,
		CanPrev:   s.current > 0,
		CanSubmit: answered && last,
	}
}

// ElapsedSeconds is whole seconds since the session started, frozen once
// the session is finished.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() int {
	end := s.now()
	if s.finished {
		end = s.finishedAt
	}
	return int(end.Sub(s.startedAt) / time.Second)
}

// Finished reports whether Submit has run.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Skipped reports whether a question index is currently flagged skipped.
func (s *Session) Skipped(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.skipped[index]
	return ok
}
