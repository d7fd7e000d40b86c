// Package compliance maps assessment answers onto NIS2 regulatory requirements.
package compliance

import (
	"fmt"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Category classifies a requirement.
type Category string

const (
	CategoryTechnical      Category = "technical"
	CategoryOrganizational Category = "organizational"
	CategoryGovernance     Category = "governance"
	CategoryOperational    Category = "operational"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryGovernance, CategoryOrganizational, CategoryTechnical, CategoryOperational}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryOrganizational, CategoryGovernance, CategoryOperational:
		return true
	}
	return false
}

// Requirement is a regulatory obligation cross-referenced to catalog questions.
// RelatedQuestions may name questions the catalog does not define.
type Requirement struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Description      string   `json:"description" yaml:"description"`
	LegalReference   string   `json:"legal_reference" yaml:"legal_reference"`
	Mandatory        bool     `json:"mandatory" yaml:"mandatory"`
	Category         Category `json:"category" yaml:"category"`
	RelatedQuestions []string `json:"related_questions" yaml:"related_questions"`
}

// ValidateRequirements checks ids and categories of a requirements catalog.
func ValidateRequirements(reqs []Requirement) error {
	seen := make(map[string]struct{}, len(reqs))
	for i, r := range reqs {
		if r.ID == "" {
			return fmt.Errorf("requirement #%d: %w", i+1, sharedErrors.ErrEmptyRequirementID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("requirement %s: %w", r.ID, sharedErrors.ErrDuplicateRequirement)
		}
		seen[r.ID] = struct{}{}
		if !r.Category.Valid() {
			return fmt.Errorf("requirement %s category %q: %w", r.ID, r.Category, sharedErrors.ErrInvalidCategory)
		}
	}
	return nil
}

// Find returns the requirement with id.
func Find(reqs []Requirement, id string) (Requirement, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return Requirement{}, false
}

// Status is the compliance verdict of one requirement.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusPartial      Status = "partial"
	StatusNonCompliant Status = "non-compliant"
	StatusNotAssessed  Status = "not-assessed"
)

// Statuses lists every status from best to worst.
func Statuses() []Status {
	return []Status{StatusCompliant, StatusPartial, StatusNonCompliant, StatusNotAssessed}
}

var statusLabels = map[Status]string{
	StatusCompliant:    "Compliant",
	StatusPartial:      "Partial Compliance",
	StatusNonCompliant: "Non-Compliant",
	StatusNotAssessed:  "Not Assessed",
}

var statusColors = map[Status]string{
	StatusCompliant:    "low-risk",
	StatusPartial:      "medium-risk",
	StatusNonCompliant: "high-risk",
	StatusNotAssessed:  "critical-risk",
}

// Label is the human-readable name of the status.
func (s Status) Label() string {
	return statusLabels[s]
}

// Color is the display color key shared with the risk tiers.
func (s Status) Color() string {
	return statusColors[s]
}
