// Package scoring computes weighted scores and risk tiers for an assessment.
// Every function is pure: the same store always yields the same result.
package scoring

import "github.com/khanhnv2901/nis2-assess/internal/domain/assessment"

// Score is the weighted result over a set of questions.
type Score struct {
	Current    int `json:"current_score"`
	Max        int `json:"max_score"`
	Percentage int `json:"percentage"`
}

// Percent returns round(current/max*100) with halves rounded up, or 0 when max is 0.
// Integer arithmetic keeps the .5 boundaries exact.
func Percent(current, max int) int {
	if max <= 0 {
		return 0
	}
	return (200*current + max) / (2 * max)
}

// ScoreQuestions aggregates the weighted score of qs. Unanswered questions
// still count towards the maximum.
func ScoreQuestions(qs []assessment.AnsweredQuestion) Score {
	var s Score
	for _, q := range qs {
		if q.SelectedAnswer != nil {
			s.Current += *q.SelectedAnswer * q.Weight
		}
		s.Max += q.MaxScore()
	}
	s.Percentage = Percent(s.Current, s.Max)
	return s
}
