package compliance

import (
	"errors"
	"testing"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

func TestValidateRequirements(t *testing.T) {
	valid := []Requirement{
		{ID: "a", Category: CategoryGovernance},
		{ID: "b", Category: CategoryTechnical},
	}
	if err := ValidateRequirements(valid); err != nil {
		t.Fatalf("valid requirements: %v", err)
	}

	tests := []struct {
		name    string
		reqs    []Requirement
		wantErr error
	}{
		{"empty id", []Requirement{{Category: CategoryGovernance}}, sharedErrors.ErrEmptyRequirementID},
		{"duplicate", []Requirement{{ID: "a", Category: CategoryGovernance}, {ID: "a", Category: CategoryTechnical}}, sharedErrors.ErrDuplicateRequirement},
		{"bad category", []Requirement{{ID: "a", Category: "legal"}}, sharedErrors.ErrInvalidCategory},
	}
	for _, tt := range tests {
		if err := ValidateRequirements(tt.reqs); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestFind(t *testing.T) {
	reqs := []Requirement{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	if r, ok := Find(reqs, "b"); !ok || r.Title != "B" {
		t.Fatalf("unexpected %+v", r)
	}
	if _, ok := Find(reqs, "z"); ok {
		t.Fatal("unexpected match")
	}
}

func TestQuestionMappings(t *testing.T) {
	reqs := []Requirement{
		{ID: "r1", RelatedQuestions: []string{"1.2", "1.3", "1.3"}},
		{ID: "r2", RelatedQuestions: []string{"1.3"}},
	}
	m := QuestionMappings(reqs)
	if got := m["1.3"]; len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Fatalf("unexpected mapping for 1.3: %v", got)
	}
	ids := MappedQuestionIDs(reqs)
	if len(ids) != 2 || ids[0] != "1.2" || ids[1] != "1.3" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestByCategory(t *testing.T) {
	reqs := []Requirement{
		{ID: "a", Category: CategoryTechnical},
		{ID: "b", Category: CategoryGovernance},
		{ID: "c", Category: CategoryTechnical},
	}
	got := ByCategory(reqs)
	if len(got[CategoryTechnical]) != 2 || got[CategoryTechnical][1].ID != "c" {
		t.Fatalf("unexpected technical group %v", got[CategoryTechnical])
	}
}

func TestDefaultFramework(t *testing.T) {
	fw := DefaultFramework()
	if fw.ID != NIS2FrameworkID || fw.Law != "Law 5160/2024" {
		t.Fatalf("unexpected framework %+v", fw)
	}
	if GetFramework("unknown") != nil {
		t.Fatal("expected nil for unknown framework")
	}
	if len(fw.Categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(fw.Categories))
	}
}
