package compliance

import (
	"fmt"

	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
)

const (
	compliantThreshold = 90
	partialThreshold   = 50
)

// RequirementStatus is the evaluated state of one requirement.
type RequirementStatus struct {
	RequirementID   string   `json:"requirement_id"`
	Status          Status   `json:"status"`
	Score           int      `json:"score"`
	MaxScore        int      `json:"max_score"`
	Matched         int      `json:"matched_questions"`
	Answered        int      `json:"answered_questions"`
	Evidence        []string `json:"evidence"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// Percentage is the rounded share of the maximum score achieved.
func (s RequirementStatus) Percentage() int {
	return scoring.Percent(s.Score, s.MaxScore)
}

// StatusFor derives the verdict from an unrounded score ratio.
func StatusFor(score, maxScore int) Status {
	if maxScore <= 0 {
		return StatusNotAssessed
	}
	switch {
	case score*100 >= compliantThreshold*maxScore:
		return StatusCompliant
	case score*100 >= partialThreshold*maxScore:
		return StatusPartial
	case score > 0:
		return StatusNonCompliant
	default:
		return StatusNotAssessed
	}
}

// EvaluateRequirement scores req against the answers in store. Related ids
// missing from the catalog are skipped.
func EvaluateRequirement(req Requirement, store assessment.Store) RequirementStatus {
	st := RequirementStatus{
		RequirementID:   req.ID,
		Evidence:        []string{},
		Gaps:            []string{},
		Recommendations: []string{},
	}

	for _, id := range req.RelatedQuestions {
		q, ok := store.Question(id)
		if !ok {
			continue
		}
		st.Matched++
		max := q.MaxRawValue()
		st.MaxScore += max * q.Weight

		if q.SelectedAnswer == nil {
			st.Gaps = append(st.Gaps, fmt.Sprintf("%s: Not answered - %s", id, q.Text))
			st.Recommendations = append(st.Recommendations, "Answer and implement: "+q.Text)
			continue
		}

		selected := *q.SelectedAnswer
		st.Answered++
		st.Score += selected * q.Weight

		if selected > 0 {
			if label, found := firstLabel(q.Question, selected); found {
				st.Evidence = append(st.Evidence, fmt.Sprintf("%s: %s", id, label))
			}
		}
		if selected < max {
			st.Gaps = append(st.Gaps, fmt.Sprintf("%s: %s", id, q.Text))
			if selected == 0 {
				st.Recommendations = append(st.Recommendations, "Fully implement: "+q.Text)
			} else {
				st.Recommendations = append(st.Recommendations, "Improve implementation: "+q.Text)
			}
		}
	}

	st.Status = StatusFor(st.Score, st.MaxScore)
	return st
}

func firstLabel(q assessment.Question, value int) (string, bool) {
	for _, a := range q.Answers {
		if a.Value == value {
			return a.Label, true
		}
	}
	return "", false
}

// EvaluateAll evaluates every requirement, preserving input order.
func EvaluateAll(reqs []Requirement, store assessment.Store) []RequirementStatus {
	out := make([]RequirementStatus, len(reqs))
	for i, r := range reqs {
		out[i] = EvaluateRequirement(r, store)
	}
	return out
}

// Summary aggregates a set of requirement statuses.
type Summary struct {
	Total                int            `json:"total"`
	Counts               map[Status]int `json:"counts"`
	Mandatory            int            `json:"mandatory"`
	MandatoryCompliant   int            `json:"mandatory_compliant"`
	CompliancePercentage int            `json:"compliance_percentage"`
}

// Count returns the number of requirements with status s.
func (s Summary) Count(status Status) int {
	return s.Counts[status]
}

// Summarize counts statuses and computes the share of compliant requirements.
// reqs supplies the mandatory flag; statuses without a matching requirement
// count as optional.
func Summarize(statuses []RequirementStatus, reqs []Requirement) Summary {
	mandatory := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		mandatory[r.ID] = r.Mandatory
	}

	sum := Summary{Total: len(statuses), Counts: make(map[Status]int, 4)}
	for _, st := range Statuses() {
		sum.Counts[st] = 0
	}
	for _, st := range statuses {
		sum.Counts[st.Status]++
		if mandatory[st.RequirementID] {
			sum.Mandatory++
			if st.Status == StatusCompliant {
				sum.MandatoryCompliant++
			}
		}
	}
	sum.CompliancePercentage = scoring.Percent(sum.Counts[StatusCompliant], sum.Total)
	return sum
}

// OrphanReference is a related question id the catalog does not define.
type OrphanReference struct {
	RequirementID string `json:"requirement_id"`
	QuestionID    string `json:"question_id"`
}

func (o OrphanReference) String() string {
	return o.RequirementID + " -> " + o.QuestionID
}

// ValidateReferences reports every related id in reqs that catalog lacks.
func ValidateReferences(reqs []Requirement, catalog *assessment.Catalog) []OrphanReference {
	var orphans []OrphanReference
	for _, r := range reqs {
		for _, id := range r.RelatedQuestions {
			if !catalog.Has(id) {
				orphans = append(orphans, OrphanReference{RequirementID: r.ID, QuestionID: id})
			}
		}
	}
	return orphans
}
