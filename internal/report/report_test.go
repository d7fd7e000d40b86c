package report

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

func scale() []assessment.Answer {
	return []assessment.Answer{
		{Value: 0, Label: "Not answered"},
		{Value: 0, Label: "No"},
		{Value: 1, Label: "Partially"},
		{Value: 2, Label: "Largely"},
		{Value: 3, Label: "Fully"},
	}
}

func fixture(t *testing.T) (assessment.Store, []compliance.Requirement) {
	t.Helper()
	c, err := assessment.NewCatalog([]assessment.Section{
		{ID: "gov", Title: "Governance", Questions: []assessment.Question{
			{ID: "1.1", Text: "Officer", Answers: scale(), Weight: 3},
			{ID: "1.2", Text: "Budget", Answers: scale(), Weight: 2},
		}},
		{ID: "inv", Title: "Inventory", Questions: []assessment.Question{
			{ID: "2.1", Text: "Assets", Answers: scale(), Weight: 1},
		}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	s := assessment.NewStore(c)
	s, _ = s.SetAnswer("1.1", 3)
	s, _ = s.SetAnswer("1.2", 0)
	s = s.SetComment("1.2", "next fiscal year")

	reqs := []compliance.Requirement{
		{ID: "governance-1", Title: "Officer", Mandatory: true, Category: compliance.CategoryGovernance, RelatedQuestions: []string{"1.1"}},
		{ID: "governance-3", Title: "Inventory", Mandatory: true, Category: compliance.CategoryOrganizational, RelatedQuestions: []string{"2.1", "2.2"}},
	}
	return s, reqs
}

func TestAssemble(t *testing.T) {
	s, reqs := fixture(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	r, err := Assemble(Metadata{Organization: "Acme"}, s, reqs, compliance.Framework{}, now)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("report id is not a uuid: %v", err)
	}
	if !r.Metadata.ReportDate.Equal(now) {
		t.Fatalf("expected report date to default to now, got %v", r.Metadata.ReportDate)
	}
	if r.Overall != scoring.Overall(s) {
		t.Fatalf("overall mismatch: %+v", r.Overall)
	}
	if r.Progress.Answered != 2 || r.Progress.Total != 3 {
		t.Fatalf("unexpected progress %+v", r.Progress)
	}
	if len(r.Sections) != 2 || r.QuestionCount() != 3 {
		t.Fatalf("unexpected sections %d / questions %d", len(r.Sections), r.QuestionCount())
	}

	rows := r.Sections[0].Questions
	if rows[0].Answer != "Fully" || rows[0].WeightedScore != 9 || rows[0].MaxScore != 9 {
		t.Fatalf("unexpected row 1.1: %+v", rows[0])
	}
	if rows[1].Answer != "No" || !rows[1].Answered || rows[1].Comments != "next fiscal year" {
		t.Fatalf("unexpected row 1.2: %+v", rows[1])
	}
	if len(rows[0].Requirements) != 1 || rows[0].Requirements[0] != "governance-1" {
		t.Fatalf("unexpected requirement mapping %v", rows[0].Requirements)
	}
	unanswered := r.Sections[1].Questions[0]
	if unanswered.Answer != NotAnsweredLabel || unanswered.Answered {
		t.Fatalf("unexpected unanswered row %+v", unanswered)
	}

	if len(r.Compliance) != 2 {
		t.Fatalf("expected 2 compliance results, got %d", len(r.Compliance))
	}
	if r.Compliance[0].Status.Status != compliance.StatusCompliant || r.Compliance[0].Label != "Compliant" || r.Compliance[0].Percentage != 100 {
		t.Fatalf("unexpected governance-1 %+v", r.Compliance[0])
	}
	if r.Compliance[1].Status.Status != compliance.StatusNotAssessed || r.Compliance[1].Color != "critical-risk" {
		t.Fatalf("unexpected governance-3 %+v", r.Compliance[1])
	}
	if r.Summary.Total != 2 || r.Summary.Count(compliance.StatusCompliant) != 1 || r.Summary.CompliancePercentage != 50 {
		t.Fatalf("unexpected summary %+v", r.Summary)
	}
	if got := r.Requirements(); len(got) != 2 || got[1].ID != "governance-3" {
		t.Fatalf("unexpected requirements %v", got)
	}
}

func TestAssembleKeepsExplicitReportDate(t *testing.T) {
	s, reqs := fixture(t)
	date := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	r, err := Assemble(Metadata{Organization: "Acme", ReportDate: date}, s, reqs, compliance.Framework{}, time.Now())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !r.Metadata.ReportDate.Equal(date) {
		t.Fatalf("report date overwritten: %v", r.Metadata.ReportDate)
	}
}

func TestAssembleFramework(t *testing.T) {
	s, reqs := fixture(t)
	custom := compliance.Framework{ID: "nis2-cy", Name: "NIS2 Directive (EU) 2022/2555", Law: "Law 89(I)/2020"}

	r, err := Assemble(Metadata{Organization: "Acme"}, s, reqs, custom, time.Now())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if r.Framework.ID != "nis2-cy" || r.Framework.Law != "Law 89(I)/2020" {
		t.Fatalf("expected the given framework, got %+v", r.Framework)
	}

	r, err = Assemble(Metadata{Organization: "Acme"}, s, reqs, compliance.Framework{}, time.Now())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if r.Framework.ID != compliance.NIS2FrameworkID {
		t.Fatalf("expected the bundled framework, got %+v", r.Framework)
	}
}

func TestAssembleIDFailure(t *testing.T) {
	orig := newID
	t.Cleanup(func() { newID = orig })
	newID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }

	s, reqs := fixture(t)
	if _, err := Assemble(Metadata{}, s, reqs, compliance.Framework{}, time.Now()); err == nil {
		t.Fatal("expected id generation failure to propagate")
	}
}

func TestMetadataValidate(t *testing.T) {
	for _, org := range []string{"", "   ", "\t"} {
		if err := (Metadata{Organization: org}).Validate(); !errors.Is(err, sharedErrors.ErrMissingOrganization) {
			t.Errorf("%q: expected ErrMissingOrganization, got %v", org, err)
		}
	}
	if err := (Metadata{Organization: "Acme"}).Validate(); err != nil {
		t.Fatalf("valid metadata: %v", err)
	}
}
