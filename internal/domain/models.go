package domain

import (
	"strings"
	"time"
)

// Question is a single multiple-choice question. CorrectAnswer holds the
// full option text, not an index, matching how topics are authored.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Validate checks the question at the store boundary so sessions never see
// a malformed document.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrValidation
	}
	if len(q.Options) < 2 {
		return ErrValidation
	}
	for _, opt := range q.Options {
		if q.CorrectAnswer == opt {
			return nil
		}
	}
	return ErrValidation
}

// Topic is a content document: notes plus an optional embedded question set.
type Topic struct {
	ID          string     `json:"id"`
	Class       string     `json:"class"`
	SubCategory string     `json:"subCategory"`
	Topic       string     `json:"topic"`
	Description string     `json:"description,omitempty"`
	NotesFile   string     `json:"notesFile,omitempty"`
	MCQs        []Question `json:"mcqs,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Slug returns the canonical URL slug for the topic name.
func (t Topic) Slug() string {
	return Slugify(t.Topic)
}

// Matches reports whether the topic answers to the given subcategory and
// slug-or-id reference. Subcategory comparison is whitespace/case
// insensitive because the same name appears in several hand-typed forms.
func (t Topic) Matches(subCategory, ref string) bool {
	return Normalize(t.SubCategory) == Normalize(subCategory) &&
		(t.Slug() == ref || t.ID == ref)
}

// InClass reports whether the topic belongs to the class named either in
// full ("Class 9", "grammar") or by its short form ("9").
func (t Topic) InClass(class string) bool {
	n := Normalize(class)
	return Normalize(t.Class) == n || Normalize(t.Class) == "class "+n
}

// Rating is the qualitative band printed on certificates.
type Rating string

const (
	RatingExcellent        Rating = "Excellent"
	RatingGood             Rating = "Good"
	RatingNeedsImprovement Rating = "Needs Improvement"
)

// RateScore maps a percentage to its band. Boundaries are inclusive at 80
// and 50.
func RateScore(percent float64) Rating {
	switch {
	case percent >= 80:
		return RatingExcellent
	case percent >= 50:
		return RatingGood
	default:
		return RatingNeedsImprovement
	}
}

// AttemptRecord is the per-(user, topic) certificate record. AttemptNumber
// is 1-based and increments on every completion of the same topic.
type AttemptRecord struct {
	UserID         string    `json:"userId"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	AttemptNumber  int       `json:"attemptNumber"`
	Rating         Rating    `json:"rating"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// TopperEntry is the leaderboard aggregate, one per user across all topics.
// Score, TotalQuestions and Topic always reflect the latest completion
// (last-write-wins, not best-of). TotalAttempts only ever grows.
type TopperEntry struct {
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Class          string    `json:"class,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Topic          string    `json:"topic"`
	TotalAttempts  int       `json:"totalAttempts"`
	LastUpdated    time.Time `json:"lastUpdated"`
	Likes          int       `json:"likes"`
	LikedBy        []string  `json:"likedBy,omitempty"`
	CommentCount   int       `json:"commentCount"`
}

// LikedByUser reports whether userID already liked this entry.
func (e TopperEntry) LikedByUser(userID string) bool {
	for _, id := range e.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Certificate is what the client renders after a completed quiz. Rendering
// (image export) is the client's concern; the service only issues the data.
type Certificate struct {
	UserName       string    `json:"userName"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	Rating         Rating    `json:"rating"`
	AttemptNumber  int       `json:"attemptNumber"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// User is the identity consumed from the external auth boundary.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Class string `json:"class,omitempty"`
}

// Authenticated reports whether a real signed-in user is present.
func (u User) Authenticated() bool {
	return u.ID != ""
}

// Comment is an append-only comment or reply. No edit/delete path exists.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Email     string    `json:"email,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ForumThread is a discussion-forum question with its replies.
type ForumThread struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Email     string    `json:"email,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Replies   []Comment `json:"replies"`
	Timestamp time.Time `json:"timestamp"`
}

// Product is a storefront item.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// OrderItem is a product reference with quantity inside an order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is a storefront purchase request.
type Order struct {
	ID        string      `json:"id"`
	Customer  string      `json:"customer"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	Items     []OrderItem `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}
