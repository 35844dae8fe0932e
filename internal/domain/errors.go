package domain

import "errors"

var (
	// ErrTopicNotFound indicates no topic matched the subcategory/slug pair.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrNoQuestions indicates the topic carries no question set.
	ErrNoQuestions = errors.New("topic has no questions")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished is returned for operations on a submitted session.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrNotAnswered blocks Next/Submit while the gating question is unanswered.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrNotLastQuestion blocks Submit before the last question is reached.
	ErrNotLastQuestion = errors.New("not at last question")
	// ErrLoginRequired gates certificate issuance behind authentication.
	ErrLoginRequired = errors.New("login required")
	// ErrValidation covers synchronously rejected input (empty fields,
	// malformed email, short text).
	ErrValidation = errors.New("validation failed")
	// ErrEntryNotFound indicates a missing leaderboard entry.
	ErrEntryNotFound = errors.New("leaderboard entry not found")
	// ErrThreadNotFound indicates a missing forum thread.
	ErrThreadNotFound = errors.New("forum thread not found")
	// ErrProductNotFound indicates an order referenced an unknown product.
	ErrProductNotFound = errors.New("product not found")
)
