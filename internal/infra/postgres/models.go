package postgres

import (
	"time"

	"gramture-service/internal/domain"
	"github.com/uptrace/bun"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	UserID         string    `bun:"user_id,pk"`
	Topic          string    `bun:"topic,pk"`
	Score          int       `bun:"score"`
	TotalQuestions int       `bun:"total_questions"`
	AttemptNumber  int       `bun:"attempt_number"`
	Rating         string    `bun:"rating"`
	IssuedAt       time.Time `bun:"issued_at"`
}

func attemptToRow(r domain.AttemptRecord) attemptRow {
	return attemptRow{
		UserID:         r.UserID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		AttemptNumber:  r.AttemptNumber,
		Rating:         string(r.Rating),
		IssuedAt:       r.IssuedAt,
	}
}

func (r attemptRow) toDomain() domain.AttemptRecord {
	return domain.AttemptRecord{
		UserID:         r.UserID,
		Topic:          r.Topic,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		AttemptNumber:  r.AttemptNumber,
		Rating:         domain.Rating(r.Rating),
		IssuedAt:       r.IssuedAt,
	}
}

type topperRow struct {
	bun.BaseModel `bun:"table:toppers"`

	UserID         string    `bun:"user_id,pk"`
	Name           string    `bun:"name"`
	Class          string    `bun:"class"`
	Score          int       `bun:"score"`
	TotalQuestions int       `bun:"total_questions"`
	Topic          string    `bun:"topic"`
	TotalAttempts  int       `bun:"total_attempts"`
	LastUpdated    time.Time `bun:"last_updated"`
	Likes          int       `bun:"likes"`
	LikedBy        []string  `bun:"liked_by,type:jsonb"`
	CommentCount   int       `bun:"comment_count"`
}

func topperToRow(e domain.TopperEntry) topperRow {
	return topperRow{
		UserID:         e.UserID,
		Name:           e.Name,
		Class:          e.Class,
		Score:          e.Score,
		TotalQuestions: e.TotalQuestions,
		Topic:          e.Topic,
		TotalAttempts:  e.TotalAttempts,
		LastUpdated:    e.LastUpdated,
		Likes:          e.Likes,
		LikedBy:        e.LikedBy,
		CommentCount:   e.CommentCount,
	}
}

func (r topperRow) toDomain() domain.TopperEntry {
	return domain.TopperEntry{
		UserID:         r.UserID,
		Name:           r.Name,
		Class:          r.Class,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Topic:          r.Topic,
		TotalAttempts:  r.TotalAttempts,
		LastUpdated:    r.LastUpdated,
		Likes:          r.Likes,
		LikedBy:        r.LikedBy,
		CommentCount:   r.CommentCount,
	}
}

type topperCommentRow struct {
	bun.BaseModel `bun:"table:topper_comments"`

	ID           int64     `bun:"id,pk,autoincrement"`
	TopperUserID string    `bun:"topper_user_id"`
	Author       string    `bun:"author"`
	Email        string    `bun:"email"`
	Text         string    `bun:"text"`
	CreatedAt    time.Time `bun:"created_at"`
}

type forumThreadRow struct {
	bun.BaseModel `bun:"table:forum_threads"`

	ID        int64            `bun:"id,pk,autoincrement"`
	Author    string           `bun:"author"`
	Email     string           `bun:"email"`
	Title     string           `bun:"title"`
	Body      string           `bun:"body"`
	Replies   []domain.Comment `bun:"replies,type:jsonb"`
	CreatedAt time.Time        `bun:"created_at"`
}

type topicCommentRow struct {
	bun.BaseModel `bun:"table:topic_comments"`

	ID          int64     `bun:"id,pk,autoincrement"`
	SubCategory string    `bun:"sub_category"`
	TopicID     string    `bun:"topic_id"`
	Author      string    `bun:"author"`
	Email       string    `bun:"email"`
	Text        string    `bun:"text"`
	CreatedAt   time.Time `bun:"created_at"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products"`

	ID          string  `bun:"id,pk"`
	Name        string  `bun:"name"`
	Description string  `bun:"description"`
	Price       float64 `bun:"price"`
	ImageURL    string  `bun:"image_url"`
}

type orderRow struct {
	bun.BaseModel `bun:"table:orders"`

	ID        int64              `bun:"id,pk,autoincrement"`
	Customer  string             `bun:"customer"`
	Email     string             `bun:"email"`
	Address   string             `bun:"address"`
	Items     []domain.OrderItem `bun:"items,type:jsonb"`
	CreatedAt time.Time          `bun:"created_at"`
}

type classRow struct {
	bun.BaseModel `bun:"table:classes"`

	Name string `bun:"name,pk"`
}

type subCategoryRow struct {
	bun.BaseModel `bun:"table:subcategories"`

	Name string `bun:"name,pk"`
}

type topicRow struct {
	bun.BaseModel `bun:"table:topics"`

	ID        string    `bun:"id,pk"`
	Data      []byte    `bun:"data,type:jsonb"`
	CreatedAt time.Time `bun:"created_at"`
}
