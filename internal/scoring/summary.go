package scoring

import "github.com/khanhnv2901/nis2-assess/internal/domain/assessment"

// Progress is how much of the questionnaire has been answered.
type Progress struct {
	Answered   int `json:"answered"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewProgress returns answered/total with a rounded percentage.
func NewProgress(answered, total int) Progress {
	return Progress{Answered: answered, Total: total, Percentage: Percent(answered, total)}
}

// SectionScore is the scored view of one catalog section.
type SectionScore struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Score    Score     `json:"score"`
	Risk     RiskLevel `json:"risk"`
	Progress Progress  `json:"progress"`
}

// Result bundles every aggregate derived from a store.
type Result struct {
	Sections []SectionScore `json:"sections"`
	Overall  Score          `json:"overall"`
	Risk     RiskLevel      `json:"risk"`
	Policy   Score          `json:"policy"`
	Progress Progress       `json:"progress"`
}

// SectionScores scores every section of the store's catalog, in catalog order.
func SectionScores(store assessment.Store) []SectionScore {
	sections := store.Sections()
	out := make([]SectionScore, len(sections))
	for i, sec := range sections {
		s := ScoreQuestions(sec.Questions)
		out[i] = SectionScore{
			ID:       sec.ID,
			Title:    sec.Title,
			Score:    s,
			Risk:     MustClassify(s.Percentage),
			Progress: NewProgress(sec.AnsweredCount(), len(sec.Questions)),
		}
	}
	return out
}

// Overall scores every question of the catalog as one set.
func Overall(store assessment.Store) Score {
	return ScoreQuestions(store.Questions())
}

// PolicyScore scores only the policy questions.
func PolicyScore(store assessment.Store) Score {
	var policy []assessment.AnsweredQuestion
	for _, q := range store.Questions() {
		if q.IsPolicyQuestion {
			policy = append(policy, q)
		}
	}
	return ScoreQuestions(policy)
}

// StoreProgress reports answered against total questions for the whole catalog.
func StoreProgress(store assessment.Store) Progress {
	return NewProgress(store.AnsweredCount(), store.Catalog().QuestionCount())
}

// Evaluate computes every aggregate for store.
func Evaluate(store assessment.Store) Result {
	overall := Overall(store)
	return Result{
		Sections: SectionScores(store),
		Overall:  overall,
		Risk:     MustClassify(overall.Percentage),
		Policy:   PolicyScore(store),
		Progress: StoreProgress(store),
	}
}
