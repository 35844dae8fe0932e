package domain

// Score counts the answered questions whose chosen option equals the
// question's correct answer. Keys of answers are question indices, values
// are option indices. Skipped and unanswered questions contribute nothing;
// out-of-range picks count as wrong.
func Score(questions []Question, answers map[int]int) int {
	correct := 0
	for i, q := range questions {
		opt, ok := answers[i]
		if !ok || opt < 0 || opt >= len(q.Options) {
			continue
		}
		if q.Options[opt] == q.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// Percentage converts a raw score to 0-100. A zero-question set scores 0.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
