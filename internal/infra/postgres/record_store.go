package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gramture-service/internal/domain"
	"github.com/uptrace/bun"
)

// RecordStore persists attempt records, topper aggregates and topper
// comments through bun. Completions run inside a transaction with the
// prior rows locked, which closes the attempt-number race the original
// site's independent writes had.
type RecordStore struct {
	db *bun.DB
}

func NewRecordStore(db *bun.DB) *RecordStore {
	return &RecordStore{db: db}
}

// RecordCompletion applies one quiz completion atomically.
func (s *RecordStore) RecordCompletion(ctx context.Context, user domain.User, topic string, score, total int, now time.Time) (domain.AttemptRecord, error) {
	var record domain.AttemptRecord
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var priorAttempt *domain.AttemptRecord
		prev := new(attemptRow)
		err := tx.NewSelect().Model(prev).
			Where("user_id = ? AND topic = ?", user.ID, topic).
			For("UPDATE").
			Scan(ctx)
		switch {
		case err == nil:
			d := prev.toDomain()
			priorAttempt = &d
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("read attempt: %w", err)
		}

		record = domain.NextAttempt(priorAttempt, user, topic, score, total, now)
		row := attemptToRow(record)
		if _, err := tx.NewInsert().Model(&row).
			On("CONFLICT (user_id, topic) DO UPDATE").
			Set("score = EXCLUDED.score").
			Set("total_questions = EXCLUDED.total_questions").
			Set("attempt_number = EXCLUDED.attempt_number").
			Set("rating = EXCLUDED.rating").
			Set("issued_at = EXCLUDED.issued_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("upsert attempt: %w", err)
		}

		var priorEntry *domain.TopperEntry
		prevTopper := new(topperRow)
		err = tx.NewSelect().Model(prevTopper).
			Where("user_id = ?", user.ID).
			For("UPDATE").
			Scan(ctx)
		switch {
		case err == nil:
			d := prevTopper.toDomain()
			priorEntry = &d
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("read topper: %w", err)
		}

		entry := topperToRow(domain.MergeTopper(priorEntry, user, topic, score, total, now))
		if _, err := tx.NewInsert().Model(&entry).
			On("CONFLICT (user_id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("class = EXCLUDED.class").
			Set("score = EXCLUDED.score").
			Set("total_questions = EXCLUDED.total_questions").
			Set("topic = EXCLUDED.topic").
			Set("total_attempts = EXCLUDED.total_attempts").
			Set("last_updated = EXCLUDED.last_updated").
			Exec(ctx); err != nil {
			return fmt.Errorf("upsert topper: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.AttemptRecord{}, err
	}
	return record, nil
}

// GetAttempt returns the stored attempt record for (user, topic).
func (s *RecordStore) GetAttempt(ctx context.Context, userID, topic string) (domain.AttemptRecord, error) {
	row := new(attemptRow)
	err := s.db.NewSelect().Model(row).
		Where("user_id = ? AND topic = ?", userID, topic).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttemptRecord{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.AttemptRecord{}, fmt.Errorf("get attempt: %w", err)
	}
	return row.toDomain(), nil
}

// ListToppers returns all aggregates ordered by score descending.
func (s *RecordStore) ListToppers(ctx context.Context) ([]domain.TopperEntry, error) {
	var rows []topperRow
	if err := s.db.NewSelect().Model(&rows).
		Order("score DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list toppers: %w", err)
	}
	entries := make([]domain.TopperEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.toDomain()
	}
	return entries, nil
}

// LikeTopper adds likerID to an entry's liked-by set; repeats no-op.
func (s *RecordStore) LikeTopper(ctx context.Context, entryUserID, likerID string) (domain.TopperEntry, error) {
	var entry domain.TopperEntry
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(topperRow)
		err := tx.NewSelect().Model(row).
			Where("user_id = ?", entryUserID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("read topper: %w", err)
		}

		entry = row.toDomain()
		if entry.LikedByUser(likerID) {
			return nil
		}
		entry.LikedBy = append(entry.LikedBy, likerID)
		entry.Likes = len(entry.LikedBy)

		updated := topperToRow(entry)
		if _, err := tx.NewUpdate().Model(&updated).
			Column("likes", "liked_by").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.TopperEntry{}, err
	}
	return entry, nil
}

// AddTopperComment appends a comment and bumps the entry's count.
func (s *RecordStore) AddTopperComment(ctx context.Context, entryUserID string, comment domain.Comment) (domain.TopperEntry, error) {
	var entry domain.TopperEntry
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(topperRow)
		err := tx.NewSelect().Model(row).
			Where("user_id = ?", entryUserID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("read topper: %w", err)
		}

		c := topperCommentRow{
			TopperUserID: entryUserID,
			Author:       comment.Author,
			Email:        comment.Email,
			Text:         comment.Text,
			CreatedAt:    comment.Timestamp,
		}
		if _, err := tx.NewInsert().Model(&c).Exec(ctx); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		entry = row.toDomain()
		entry.CommentCount++
		updated := topperToRow(entry)
		if _, err := tx.NewUpdate().Model(&updated).
			Column("comment_count").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update comment count: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.TopperEntry{}, err
	}
	return entry, nil
}

// ListTopperComments returns an entry's comments, oldest first.
func (s *RecordStore) ListTopperComments(ctx context.Context, entryUserID string) ([]domain.Comment, error) {
	var rows []topperCommentRow
	if err := s.db.NewSelect().Model(&rows).
		Where("topper_user_id = ?", entryUserID).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list topper comments: %w", err)
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
