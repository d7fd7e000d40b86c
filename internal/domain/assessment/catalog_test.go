package assessment

import (
	"errors"
	"testing"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

func standardAnswers() []Answer {
	return []Answer{
		{Value: 0, Label: "Not answered"},
		{Value: 0, Label: "No"},
		{Value: 1, Label: "Partially"},
		{Value: 2, Label: "Largely"},
		{Value: 3, Label: "Fully"},
	}
}

func policyAnswers() []Answer {
	return []Answer{
		{Value: 0, Label: "Not answered"},
		{Value: 0, Label: "No"},
		{Value: 1, Label: "Empirical"},
		{Value: 2, Label: "Partially written"},
		{Value: 3, Label: "Written"},
		{Value: 4, Label: "Written and approved"},
	}
}

func testSections() []Section {
	return []Section{
		{
			ID:    "governance",
			Title: "Governance",
			Questions: []Question{
				{ID: "1.1", Text: "Security policy", Answers: policyAnswers(), Weight: 2, IsPolicyQuestion: true},
				{ID: "1.2", Text: "Security officer", Answers: standardAnswers(), Weight: 3},
			},
		},
		{
			ID:    "inventory",
			Title: "Inventory",
			Questions: []Question{
				{ID: "2.1", Text: "Asset register", Answers: standardAnswers(), Weight: 1},
			},
		},
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testSections())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestNewCatalogIndexesQuestions(t *testing.T) {
	c := mustCatalog(t)

	if c.QuestionCount() != 3 {
		t.Fatalf("expected 3 questions, got %d", c.QuestionCount())
	}
	q, ok := c.Question("2.1")
	if !ok {
		t.Fatal("expected question 2.1 to be indexed")
	}
	if q.Text != "Asset register" {
		t.Fatalf("unexpected question text %q", q.Text)
	}
	if c.Has("9.9") {
		t.Fatal("unexpected question 9.9")
	}
	if len(c.Sections()) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(c.Sections()))
	}
	sec, ok := c.Section("inventory")
	if !ok || len(sec.Questions) != 1 {
		t.Fatalf("unexpected inventory section: %+v", sec)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Section) []Section
		wantErr error
	}{
		{
			name:    "empty",
			mutate:  func([]Section) []Section { return nil },
			wantErr: sharedErrors.ErrEmptyCatalog,
		},
		{
			name: "empty section id",
			mutate: func(s []Section) []Section {
				s[0].ID = ""
				return s
			},
			wantErr: sharedErrors.ErrEmptySectionID,
		},
		{
			name: "duplicate section",
			mutate: func(s []Section) []Section {
				s[1].ID = "governance"
				return s
			},
			wantErr: sharedErrors.ErrDuplicateSection,
		},
		{
			name: "duplicate question across sections",
			mutate: func(s []Section) []Section {
				s[1].Questions[0].ID = "1.1"
				return s
			},
			wantErr: sharedErrors.ErrDuplicateQuestion,
		},
		{
			name: "empty question id",
			mutate: func(s []Section) []Section {
				s[0].Questions[1].ID = ""
				return s
			},
			wantErr: sharedErrors.ErrEmptyQuestionID,
		},
		{
			name: "zero weight",
			mutate: func(s []Section) []Section {
				s[0].Questions[1].Weight = 0
				return s
			},
			wantErr: sharedErrors.ErrInvalidWeight,
		},
		{
			name: "no answers",
			mutate: func(s []Section) []Section {
				s[0].Questions[1].Answers = nil
				return s
			},
			wantErr: sharedErrors.ErrNoAnswers,
		},
		{
			name: "negative answer",
			mutate: func(s []Section) []Section {
				s[0].Questions[1].Answers = append(s[0].Questions[1].Answers, Answer{Value: -1, Label: "?"})
				return s
			},
			wantErr: sharedErrors.ErrNegativeAnswerValue,
		},
		{
			name: "standard question with policy scale",
			mutate: func(s []Section) []Section {
				s[0].Questions[1].Answers = policyAnswers()
				return s
			},
			wantErr: sharedErrors.ErrAnswerExceedsMax,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.mutate(testSections()))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewCatalogCopiesInput(t *testing.T) {
	sections := testSections()
	c, err := NewCatalog(sections)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	sections[0].Questions[0].Text = "changed"
	sections[0].Questions[0].Answers[5].Label = "changed"

	q, _ := c.Question("1.1")
	if q.Text != "Security policy" {
		t.Fatalf("catalog must not alias caller sections, got %q", q.Text)
	}
	if label, _ := q.LabelFor(4); label != "Written and approved" {
		t.Fatalf("catalog must not alias caller answers, got %q", label)
	}
}

func TestQuestionMaxRawValue(t *testing.T) {
	c := mustCatalog(t)
	policy, _ := c.Question("1.1")
	standard, _ := c.Question("1.2")

	if policy.MaxRawValue() != 4 || policy.MaxScore() != 8 {
		t.Fatalf("policy: max raw %d, max score %d", policy.MaxRawValue(), policy.MaxScore())
	}
	if standard.MaxRawValue() != 3 || standard.MaxScore() != 9 {
		t.Fatalf("standard: max raw %d, max score %d", standard.MaxRawValue(), standard.MaxScore())
	}
}

func TestQuestionLabelFor(t *testing.T) {
	q := Question{ID: "x", Answers: standardAnswers(), Weight: 1}

	tests := []struct {
		value int
		want  string
		found bool
	}{
		{0, "No", true},
		{1, "Partially", true},
		{3, "Fully", true},
		{4, "", false},
	}
	for _, tt := range tests {
		got, found := q.LabelFor(tt.value)
		if got != tt.want || found != tt.found {
			t.Fatalf("LabelFor(%d) = %q,%v; want %q,%v", tt.value, got, found, tt.want, tt.found)
		}
	}
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var c *Catalog
	if c.Has("1.1") || c.QuestionCount() != 0 || c.Sections() != nil {
		t.Fatal("nil catalog should behave as empty")
	}
	if _, ok := c.Question("1.1"); ok {
		t.Fatal("nil catalog should not find questions")
	}
}
