package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"gramture-service/internal/domain"
	"github.com/uptrace/bun"
)

// ForumStore persists discussion threads (replies embedded as JSONB, the
// way the original document store kept them) and per-topic comments.
type ForumStore struct {
	db *bun.DB
}

func NewForumStore(db *bun.DB) *ForumStore {
	return &ForumStore{db: db}
}

func (s *ForumStore) ListThreads(ctx context.Context) ([]domain.ForumThread, error) {
	var rows []forumThreadRow
	if err := s.db.NewSelect().Model(&rows).
		Order("created_at DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	threads := make([]domain.ForumThread, len(rows))
	for i, r := range rows {
		threads[i] = r.toDomain()
	}
	return threads, nil
}

func (r forumThreadRow) toDomain() domain.ForumThread {
	return domain.ForumThread{
		ID:        strconv.FormatInt(r.ID, 10),
		Author:    r.Author,
		Email:     r.Email,
		Title:     r.Title,
		Body:      r.Body,
		Replies:   r.Replies,
		Timestamp: r.CreatedAt,
	}
}

func (s *ForumStore) AddThread(ctx context.Context, thread domain.ForumThread) (domain.ForumThread, error) {
	row := forumThreadRow{
		Author:    thread.Author,
		Email:     thread.Email,
		Title:     thread.Title,
		Body:      thread.Body,
		Replies:   []domain.Comment{},
		CreatedAt: thread.Timestamp,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return domain.ForumThread{}, fmt.Errorf("insert thread: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ForumStore) AddReply(ctx context.Context, threadID string, reply domain.Comment) (domain.ForumThread, error) {
	id, err := strconv.ParseInt(threadID, 10, 64)
	if err != nil {
		return domain.ForumThread{}, domain.ErrThreadNotFound
	}

	var thread domain.ForumThread
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(forumThreadRow)
		err := tx.NewSelect().Model(row).
			Where("id = ?", id).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrThreadNotFound
		}
		if err != nil {
			return fmt.Errorf("read thread: %w", err)
		}

		reply.ID = "r" + strconv.Itoa(len(row.Replies)+1)
		row.Replies = append(row.Replies, reply)
		if _, err := tx.NewUpdate().Model(row).
			Column("replies").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update replies: %w", err)
		}
		thread = row.toDomain()
		return nil
	})
	if err != nil {
		return domain.ForumThread{}, err
	}
	return thread, nil
}

func (s *ForumStore) ListComments(ctx context.Context, subCategory, topicID string) ([]domain.Comment, error) {
	var rows []topicCommentRow
	if err := s.db.NewSelect().Model(&rows).
		Where("sub_category = ? AND topic_id = ?", domain.Normalize(subCategory), topicID).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments := make([]domain.Comment, len(rows))
	for i, r := range rows {
		comments[i] = domain.Comment{
			ID:        strconv.FormatInt(r.ID, 10),
			Author:    r.Author,
			Email:     r.Email,
			Text:      r.Text,
			Timestamp: r.CreatedAt,
		}
	}
	return comments, nil
}

func (s *ForumStore) AddComment(ctx context.Context, subCategory, topicID string, comment domain.Comment) (domain.Comment, error) {
	row := topicCommentRow{
		SubCategory: domain.Normalize(subCategory),
		TopicID:     topicID,
		Author:      comment.Author,
		Email:       comment.Email,
		Text:        comment.Text,
		CreatedAt:   comment.Timestamp,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = strconv.FormatInt(row.ID, 10)
	return comment, nil
}
