package app

import (
	"context"
	"strings"
	"time"

	"gramture-service/internal/domain"
)

// ForumStore persists discussion-forum threads and their replies.
type ForumStore interface {
	ListThreads(ctx context.Context) ([]domain.ForumThread, error)
	AddThread(ctx context.Context, thread domain.ForumThread) (domain.ForumThread, error)
	AddReply(ctx context.Context, threadID string, reply domain.Comment) (domain.ForumThread, error)
}

// CommentStore persists per-topic comment lists, keyed the way the site
// organizes them: subcategory then topic id.
type CommentStore interface {
	ListComments(ctx context.Context, subCategory, topicID string) ([]domain.Comment, error)
	AddComment(ctx context.Context, subCategory, topicID string, comment domain.Comment) (domain.Comment, error)
}

const minCommentLength = 2

// ValidateComment applies the synchronous pre-write checks: author
// present, text long enough, email (when given) plausible.
func ValidateComment(c domain.Comment) error {
	if strings.TrimSpace(c.Author) == "" {
		return domain.ErrValidation
	}
	if len(strings.TrimSpace(c.Text)) < minCommentLength {
		return domain.ErrValidation
	}
	if c.Email != "" && !plausibleEmail(c.Email) {
		return domain.ErrValidation
	}
	return nil
}

// plausibleEmail is the same lightweight shape check the site performs:
// something@something.something.
func plausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	rest := email[at+1:]
	dot := strings.Index(rest, ".")
	if dot <= 0 || dot == len(rest)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// ForumService owns the discussion forum and per-topic comment flows.
// Threads and comments are append-only; there is no edit or delete path.
type ForumService struct {
	threads  ForumStore
	comments CommentStore
	now      func() time.Time
}

func NewForumService(threads ForumStore, comments CommentStore) *ForumService {
	return &ForumService{threads: threads, comments: comments, now: time.Now}
}

// WithClock overrides the service clock for deterministic tests.
func (s *ForumService) WithClock(now func() time.Time) *ForumService {
	s.now = now
	return s
}

// Threads lists forum threads, newest first.
func (s *ForumService) Threads(ctx context.Context) ([]domain.ForumThread, error) {
	return s.threads.ListThreads(ctx)
}

// Ask posts a new forum thread.
func (s *ForumService) Ask(ctx context.Context, thread domain.ForumThread) (domain.ForumThread, error) {
	if strings.TrimSpace(thread.Author) == "" || strings.TrimSpace(thread.Title) == "" {
		return domain.ForumThread{}, domain.ErrValidation
	}
	if thread.Email != "" && !plausibleEmail(thread.Email) {
		return domain.ForumThread{}, domain.ErrValidation
	}
	thread.Timestamp = s.now()
	thread.Replies = nil
	return s.threads.AddThread(ctx, thread)
}

// Reply appends a reply to a thread.
func (s *ForumService) Reply(ctx context.Context, threadID string, reply domain.Comment) (domain.ForumThread, error) {
	if err := ValidateComment(reply); err != nil {
		return domain.ForumThread{}, err
	}
	reply.Timestamp = s.now()
	return s.threads.AddReply(ctx, threadID, reply)
}

// TopicComments lists the comments under a topic.
func (s *ForumService) TopicComments(ctx context.Context, subCategory, topicID string) ([]domain.Comment, error) {
	return s.comments.ListComments(ctx, subCategory, topicID)
}

// CommentOnTopic appends a comment under a topic.
func (s *ForumService) CommentOnTopic(ctx context.Context, subCategory, topicID string, comment domain.Comment) (domain.Comment, error) {
	if err := ValidateComment(comment); err != nil {
		return domain.Comment{}, err
	}
	comment.Timestamp = s.now()
	return s.comments.AddComment(ctx, subCategory, topicID, comment)
}
