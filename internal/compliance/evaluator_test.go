package compliance

import (
	"strings"
	"testing"

	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
)

func standardScale() []assessment.Answer {
	return []assessment.Answer{
		{Value: 0, Label: "Not answered"},
		{Value: 0, Label: "No"},
		{Value: 1, Label: "Partially"},
		{Value: 2, Label: "Largely"},
		{Value: 3, Label: "Fully"},
	}
}

func policyScale() []assessment.Answer {
	return append(standardScale(), assessment.Answer{Value: 4, Label: "Written and approved"})
}

func testStore(t *testing.T) assessment.Store {
	t.Helper()
	c, err := assessment.NewCatalog([]assessment.Section{{
		ID:    "governance",
		Title: "Governance",
		Questions: []assessment.Question{
			{ID: "1.2", Text: "Security officer appointed", Answers: standardScale(), Weight: 3},
			{ID: "1.3", Text: "Officer reports to management", Answers: standardScale(), Weight: 3},
			{ID: "1.8", Text: "Cybersecurity policy", Answers: policyScale(), Weight: 1, IsPolicyQuestion: true},
			{ID: "1.9", Text: "Policy reviewed", Answers: standardScale(), Weight: 1},
		},
	}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return assessment.NewStore(c)
}

func set(t *testing.T, s assessment.Store, id string, v int) assessment.Store {
	t.Helper()
	next, err := s.SetAnswer(id, v)
	if err != nil {
		t.Fatalf("SetAnswer(%s, %d): %v", id, v, err)
	}
	return next
}

func TestEvaluateRequirementPartial(t *testing.T) {
	s := set(t, testStore(t), "1.2", 3)
	req := Requirement{ID: "governance-1", Category: CategoryGovernance, RelatedQuestions: []string{"1.2", "1.3"}}

	got := EvaluateRequirement(req, s)
	if got.Score != 9 || got.MaxScore != 18 || got.Percentage() != 50 {
		t.Fatalf("unexpected score %d/%d (%d%%)", got.Score, got.MaxScore, got.Percentage())
	}
	if got.Status != StatusPartial {
		t.Fatalf("expected partial, got %s", got.Status)
	}
	if len(got.Gaps) != 1 || !strings.HasPrefix(got.Gaps[0], "1.3: Not answered") {
		t.Fatalf("unexpected gaps %v", got.Gaps)
	}
	if len(got.Evidence) != 1 || got.Evidence[0] != "1.2: Fully" {
		t.Fatalf("unexpected evidence %v", got.Evidence)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != "Answer and implement: Officer reports to management" {
		t.Fatalf("unexpected recommendations %v", got.Recommendations)
	}
	if got.Matched != 2 || got.Answered != 1 {
		t.Fatalf("unexpected matched/answered %d/%d", got.Matched, got.Answered)
	}
}

func TestEvaluateRequirementOnlyUnknownIDs(t *testing.T) {
	s := set(t, testStore(t), "1.2", 3)
	req := Requirement{ID: "incident-1", RelatedQuestions: []string{"18.1", "18.2"}}

	got := EvaluateRequirement(req, s)
	if got.Score != 0 || got.MaxScore != 0 {
		t.Fatalf("unexpected score %d/%d", got.Score, got.MaxScore)
	}
	if got.Status != StatusNotAssessed {
		t.Fatalf("expected not-assessed, got %s", got.Status)
	}
	if len(got.Evidence) != 0 || len(got.Gaps) != 0 || len(got.Recommendations) != 0 {
		t.Fatalf("expected no evidence or gaps, got %v / %v", got.Evidence, got.Gaps)
	}
	if got.Matched != 0 {
		t.Fatalf("expected no matched questions, got %d", got.Matched)
	}
}

func TestEvaluateRequirementSkipsUnknownAmongKnown(t *testing.T) {
	s := set(t, testStore(t), "1.2", 3)
	withUnknown := Requirement{ID: "r", RelatedQuestions: []string{"1.2", "99.1"}}
	known := Requirement{ID: "r", RelatedQuestions: []string{"1.2"}}

	a := EvaluateRequirement(withUnknown, s)
	b := EvaluateRequirement(known, s)
	if a.Score != b.Score || a.MaxScore != b.MaxScore || a.Status != b.Status {
		t.Fatalf("unknown id changed the result: %+v vs %+v", a, b)
	}
}

func TestEvaluateRequirementRecommendations(t *testing.T) {
	s := testStore(t)
	s = set(t, s, "1.2", 0)
	s = set(t, s, "1.3", 2)
	s = set(t, s, "1.8", 4)
	req := Requirement{ID: "r", RelatedQuestions: []string{"1.2", "1.3", "1.8"}}

	got := EvaluateRequirement(req, s)
	wantGaps := []string{"1.2: Security officer appointed", "1.3: Officer reports to management"}
	wantRecs := []string{"Fully implement: Security officer appointed", "Improve implementation: Officer reports to management"}
	if strings.Join(got.Gaps, "|") != strings.Join(wantGaps, "|") {
		t.Fatalf("gaps = %v, want %v", got.Gaps, wantGaps)
	}
	if strings.Join(got.Recommendations, "|") != strings.Join(wantRecs, "|") {
		t.Fatalf("recommendations = %v, want %v", got.Recommendations, wantRecs)
	}
	wantEvidence := []string{"1.3: Largely", "1.8: Written and approved"}
	if strings.Join(got.Evidence, "|") != strings.Join(wantEvidence, "|") {
		t.Fatalf("evidence = %v, want %v", got.Evidence, wantEvidence)
	}
	if got.Answered != 3 {
		t.Fatalf("expected 3 answered, got %d", got.Answered)
	}
}

func TestEvaluateRequirementAllZeroIsNotAssessed(t *testing.T) {
	s := set(t, set(t, testStore(t), "1.2", 0), "1.3", 0)
	got := EvaluateRequirement(Requirement{ID: "r", RelatedQuestions: []string{"1.2", "1.3"}}, s)

	if got.Status != StatusNotAssessed {
		t.Fatalf("expected not-assessed, got %s", got.Status)
	}
	if got.Matched != 2 || got.Answered != 2 {
		t.Fatalf("answered zeros should still be counted: %d/%d", got.Matched, got.Answered)
	}
}

func TestStatusForThresholds(t *testing.T) {
	tests := []struct {
		score, max int
		want       Status
	}{
		{0, 0, StatusNotAssessed},
		{0, 10, StatusNotAssessed},
		{1, 100, StatusNonCompliant},
		{49, 100, StatusNonCompliant},
		{50, 100, StatusPartial},
		{89, 100, StatusPartial},
		{90, 100, StatusCompliant},
		{100, 100, StatusCompliant},
		// 89.5% must not round up into compliant.
		{179, 200, StatusPartial},
		// 49.5% must not round up into partial.
		{99, 200, StatusNonCompliant},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.score, tt.max); got != tt.want {
			t.Errorf("StatusFor(%d, %d) = %s, want %s", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestEvaluateAllPreservesOrder(t *testing.T) {
	s := set(t, testStore(t), "1.9", 3)
	reqs := []Requirement{
		{ID: "b", RelatedQuestions: []string{"1.9"}},
		{ID: "a", RelatedQuestions: []string{"1.2"}},
		{ID: "c"},
	}

	got := EvaluateAll(reqs, s)
	if len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(got))
	}
	for i, r := range reqs {
		if got[i].RequirementID != r.ID {
			t.Fatalf("position %d: got %s, want %s", i, got[i].RequirementID, r.ID)
		}
	}
	if got[0].Status != StatusCompliant || got[1].Status != StatusNotAssessed || got[2].Status != StatusNotAssessed {
		t.Fatalf("unexpected statuses %s %s %s", got[0].Status, got[1].Status, got[2].Status)
	}
}

func TestSummarize(t *testing.T) {
	reqs := []Requirement{
		{ID: "a", Mandatory: true},
		{ID: "b", Mandatory: true},
		{ID: "c"},
	}
	statuses := []RequirementStatus{
		{RequirementID: "a", Status: StatusCompliant},
		{RequirementID: "b", Status: StatusPartial},
		{RequirementID: "c", Status: StatusCompliant},
	}

	got := Summarize(statuses, reqs)
	if got.Total != 3 || got.Count(StatusCompliant) != 2 || got.Count(StatusPartial) != 1 || got.Count(StatusNotAssessed) != 0 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.Mandatory != 2 || got.MandatoryCompliant != 1 {
		t.Fatalf("unexpected mandatory counts %d/%d", got.MandatoryCompliant, got.Mandatory)
	}
	if got.CompliancePercentage != 67 {
		t.Fatalf("expected 67%%, got %d", got.CompliancePercentage)
	}
	if empty := Summarize(nil, nil); empty.CompliancePercentage != 0 || empty.Total != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestValidateReferences(t *testing.T) {
	s := testStore(t)
	reqs := []Requirement{
		{ID: "governance-1", RelatedQuestions: []string{"1.2", "1.3"}},
		{ID: "incident-1", RelatedQuestions: []string{"18.1", "1.9"}},
	}

	got := ValidateReferences(reqs, s.Catalog())
	if len(got) != 1 || got[0] != (OrphanReference{RequirementID: "incident-1", QuestionID: "18.1"}) {
		t.Fatalf("unexpected orphans %v", got)
	}
	if got[0].String() != "incident-1 -> 18.1" {
		t.Fatalf("unexpected string %q", got[0].String())
	}
}

func TestStatusLabelsAndColors(t *testing.T) {
	tests := []struct {
		status       Status
		label, color string
	}{
		{StatusCompliant, "Compliant", "low-risk"},
		{StatusPartial, "Partial Compliance", "medium-risk"},
		{StatusNonCompliant, "Non-Compliant", "high-risk"},
		{StatusNotAssessed, "Not Assessed", "critical-risk"},
	}
	for _, tt := range tests {
		if tt.status.Label() != tt.label || tt.status.Color() != tt.color {
			t.Errorf("%s: got %q/%q", tt.status, tt.status.Label(), tt.status.Color())
		}
	}
}
