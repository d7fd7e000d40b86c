// Package report assembles the format-agnostic assessment report record that
// every exporter renders.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// NotAnsweredLabel is shown for questions without a selected answer.
const NotAnsweredLabel = "Not answered"

// newID is a package-level var to allow test injection.
var newID = uuid.NewRandom

// Metadata describes who the report is for and who produced it.
type Metadata struct {
	Organization     string    `json:"organization"`
	AssessmentPeriod string    `json:"assessment_period,omitempty"`
	PreparedBy       string    `json:"prepared_by,omitempty"`
	ApprovedBy       string    `json:"approved_by,omitempty"`
	ReportDate       time.Time `json:"report_date"`
}

// Validate requires a non-blank organization name.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Organization) == "" {
		return sharedErrors.ErrMissingOrganization
	}
	return nil
}

// QuestionRow is one answered-or-not line of the detailed results.
type QuestionRow struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Answer        string   `json:"answer"`
	Answered      bool     `json:"answered"`
	Points        int      `json:"points"`
	Weight        int      `json:"weight"`
	WeightedScore int      `json:"weighted_score"`
	MaxScore      int      `json:"max_score"`
	Policy        bool     `json:"policy,omitempty"`
	Comments      string   `json:"comments,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
}

// SectionResult is the scored view of one section with its question rows.
type SectionResult struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Score     scoring.Score     `json:"score"`
	Risk      scoring.RiskLevel `json:"risk"`
	Progress  scoring.Progress  `json:"progress"`
	Questions []QuestionRow     `json:"questions"`
}

// RequirementResult pairs a requirement with its evaluated status.
type RequirementResult struct {
	Requirement compliance.Requirement       `json:"requirement"`
	Status      compliance.RequirementStatus `json:"status"`
	Percentage  int                          `json:"percentage"`
	Label       string                       `json:"label"`
	Color       string                       `json:"color"`
}

// Report is the full assessment outcome.
type Report struct {
	ID          string               `json:"id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Framework   compliance.Framework `json:"framework"`
	Metadata    Metadata             `json:"metadata"`
	Overall     scoring.Score        `json:"overall"`
	Risk        scoring.RiskLevel    `json:"risk"`
	Progress    scoring.Progress     `json:"progress"`
	Policy      scoring.Score        `json:"policy"`
	Sections    []SectionResult      `json:"sections"`
	Compliance  []RequirementResult  `json:"compliance"`
	Summary     compliance.Summary   `json:"summary"`
}

// Assemble builds the report for store against reqs of framework fw. A zero
// report date defaults to now and a framework without an ID to the bundled one.
func Assemble(meta Metadata, store assessment.Store, reqs []compliance.Requirement, fw compliance.Framework, now time.Time) (*Report, error) {
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}
	if meta.ReportDate.IsZero() {
		meta.ReportDate = now
	}
	if fw.ID == "" {
		fw = compliance.DefaultFramework()
	}

	result := scoring.Evaluate(store)
	mappings := compliance.QuestionMappings(reqs)

	r := &Report{
		ID:          id.String(),
		GeneratedAt: now,
		Framework:   fw,
		Metadata:    meta,
		Overall:     result.Overall,
		Risk:        result.Risk,
		Progress:    result.Progress,
		Policy:      result.Policy,
		Sections:    make([]SectionResult, 0, len(result.Sections)),
	}

	for i, sec := range store.Sections() {
		scored := result.Sections[i]
		rows := make([]QuestionRow, len(sec.Questions))
		for j, q := range sec.Questions {
			rows[j] = questionRow(q, mappings[q.ID])
		}
		r.Sections = append(r.Sections, SectionResult{
			ID:        scored.ID,
			Title:     scored.Title,
			Score:     scored.Score,
			Risk:      scored.Risk,
			Progress:  scored.Progress,
			Questions: rows,
		})
	}

	statuses := compliance.EvaluateAll(reqs, store)
	r.Compliance = make([]RequirementResult, len(reqs))
	for i, req := range reqs {
		st := statuses[i]
		r.Compliance[i] = RequirementResult{
			Requirement: req,
			Status:      st,
			Percentage:  st.Percentage(),
			Label:       st.Status.Label(),
			Color:       st.Status.Color(),
		}
	}
	r.Summary = compliance.Summarize(statuses, reqs)

	return r, nil
}

func questionRow(q assessment.AnsweredQuestion, requirements []string) QuestionRow {
	row := QuestionRow{
		ID:           q.ID,
		Text:         q.Text,
		Answer:       NotAnsweredLabel,
		Weight:       q.Weight,
		MaxScore:     q.MaxScore(),
		Policy:       q.IsPolicyQuestion,
		Comments:     q.Comments,
		Requirements: requirements,
	}
	if q.SelectedAnswer != nil {
		v := *q.SelectedAnswer
		row.Answered = true
		row.Points = v
		row.WeightedScore = v * q.Weight
		if label, ok := q.LabelFor(v); ok {
			row.Answer = label
		}
	}
	return row
}

// QuestionCount is the number of questions across all sections.
func (r *Report) QuestionCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Questions)
	}
	return n
}

// Requirements returns the requirements the report was evaluated against.
func (r *Report) Requirements() []compliance.Requirement {
	out := make([]compliance.Requirement, len(r.Compliance))
	for i, c := range r.Compliance {
		out[i] = c.Requirement
	}
	return out
}
