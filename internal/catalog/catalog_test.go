package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

func TestDefaultQuestions(t *testing.T) {
	c, err := DefaultQuestions()
	if err != nil {
		t.Fatalf("DefaultQuestions: %v", err)
	}

	sections := c.Sections()
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	wantCounts := map[string]int{"governance": 17, "inventory": 12, "configuration": 10}
	for _, s := range sections {
		if len(s.Questions) != wantCounts[s.ID] {
			t.Errorf("section %s: expected %d questions, got %d", s.ID, wantCounts[s.ID], len(s.Questions))
		}
	}
	if c.QuestionCount() != 39 {
		t.Fatalf("expected 39 questions, got %d", c.QuestionCount())
	}

	policy, ok := c.Question("1.8")
	if !ok || !policy.IsPolicyQuestion || policy.MaxRawValue() != 4 || len(policy.Answers) != 6 {
		t.Fatalf("unexpected policy question %+v", policy)
	}
	standard, ok := c.Question("1.1")
	if !ok || standard.IsPolicyQuestion || standard.Weight != 3 || len(standard.Answers) != 5 {
		t.Fatalf("unexpected standard question %+v", standard)
	}
	if standard.Answers[0].Label != "Not answered" || standard.Answers[0].Value != 0 {
		t.Fatalf("first answer must be the unanswered sentinel, got %+v", standard.Answers[0])
	}
}

func TestDefaultRequirements(t *testing.T) {
	reqs, err := DefaultRequirements()
	if err != nil {
		t.Fatalf("DefaultRequirements: %v", err)
	}
	if len(reqs) != 13 {
		t.Fatalf("expected 13 requirements, got %d", len(reqs))
	}
	if reqs[0].ID != "governance-1" || len(reqs[0].RelatedQuestions) != 2 {
		t.Fatalf("unexpected first requirement %+v", reqs[0])
	}
	for _, r := range reqs {
		if !r.Mandatory || r.LegalReference == "" || !r.Category.Valid() {
			t.Errorf("requirement %s incomplete: %+v", r.ID, r)
		}
	}
}

func TestLoadBundled(t *testing.T) {
	b, err := Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Framework.Law != "Law 5160/2024" {
		t.Fatalf("unexpected framework %+v", b.Framework)
	}

	// The bundled questionnaire covers sections 1-3 only.
	orphans := b.Orphans()
	if len(orphans) == 0 {
		t.Fatal("expected orphan references for sections beyond the questionnaire")
	}
	for _, o := range orphans {
		if b.Questions.Has(o.QuestionID) {
			t.Fatalf("%s reported as orphan but exists", o.QuestionID)
		}
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	questions := filepath.Join(dir, "q.yaml")
	requirements := filepath.Join(dir, "r.yaml")

	writeFile(t, questions, `
scales:
  standard:
    - {value: 0, label: "Not answered"}
    - {value: 3, label: "Yes"}
sections:
  - id: s
    title: S
    questions:
      - id: "1"
        text: One
        weight: 2
      - id: "2"
        text: Two
        weight: 1
        answers:
          - {value: 0, label: "No"}
          - {value: 1, label: "Some"}
`)
	writeFile(t, requirements, `
requirements:
  - id: r
    title: R
    category: technical
    related_questions: ["1", "2"]
`)

	b, err := Load(questions, requirements)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	q, _ := b.Questions.Question("2")
	if len(q.Answers) != 2 || q.Answers[1].Label != "Some" {
		t.Fatalf("explicit answers not kept: %+v", q.Answers)
	}
	if len(b.Orphans()) != 0 {
		t.Fatalf("unexpected orphans %v", b.Orphans())
	}
}

func TestParseQuestionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
		is      error
	}{
		{"empty", ``, "empty document", nil},
		{"unknown field", "sections: []\nextra: 1\n", "field extra not found", nil},
		{"no sections", "sections: []\n", "", sharedErrors.ErrEmptyCatalog},
		{
			"unknown scale",
			"sections:\n  - id: s\n    questions:\n      - {id: \"1\", weight: 1, scale: custom}\n",
			"unknown answer scale",
			nil,
		},
	}
	for _, tt := range tests {
		_, err := ParseQuestions(strings.NewReader(tt.doc))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.is != nil && !errors.Is(err, tt.is) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.is, err)
		}
		if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected %q in %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestParseRequirementsErrors(t *testing.T) {
	_, _, err := ParseRequirements(strings.NewReader("requirements:\n  - {id: a, category: legal}\n"))
	if !errors.Is(err, sharedErrors.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	_, _, err = ParseRequirements(strings.NewReader("framework: iso\nrequirements: []\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown framework") {
		t.Fatalf("expected unknown framework error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Fatal("expected error for missing questions file")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
