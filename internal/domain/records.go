package domain

import "time"

// NextAttempt builds the attempt record for a fresh completion. prior is
// the existing record for the same (user, topic), or nil on the first run.
func NextAttempt(prior *AttemptRecord, user User, topic string, score, total int, now time.Time) AttemptRecord {
	attempt := 1
	if prior != nil {
		attempt = prior.AttemptNumber + 1
	}
	return AttemptRecord{
		UserID:         user.ID,
		Topic:          topic,
		Score:          score,
		TotalQuestions: total,
		AttemptNumber:  attempt,
		Rating:         RateScore(Percentage(score, total)),
		IssuedAt:       now,
	}
}

// MergeTopper folds a completion into the user's leaderboard aggregate.
// Score, TotalQuestions and Topic take the latest attempt's values
// (last-write-wins); TotalAttempts grows by one; likes and comments are
// preserved.
func MergeTopper(prior *TopperEntry, user User, topic string, score, total int, now time.Time) TopperEntry {
	entry := TopperEntry{UserID: user.ID, Name: user.Name, Class: user.Class}
	if prior != nil {
		entry = *prior
		if user.Name != "" {
			entry.Name = user.Name
		}
		if user.Class != "" {
			entry.Class = user.Class
		}
	}
	entry.Score = score
	entry.TotalQuestions = total
	entry.Topic = topic
	entry.TotalAttempts++
	entry.LastUpdated = now
	return entry
}
