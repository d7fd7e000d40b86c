package assessment

import (
	"fmt"

	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Answer is one selectable choice of a question.
type Answer struct {
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Question is an immutable catalog entry. Answer state lives in the Store.
type Question struct {
	ID               string   `json:"id" yaml:"id"`
	Text             string   `json:"text" yaml:"text"`
	Answers          []Answer `json:"answers" yaml:"answers"`
	Weight           int      `json:"weight" yaml:"weight"`
	IsPolicyQuestion bool     `json:"is_policy_question,omitempty" yaml:"policy,omitempty"`
}

// MaxRawValue is the highest raw answer value attainable for the question.
func (q Question) MaxRawValue() int {
	if q.IsPolicyQuestion {
		return constants.PolicyMaxValue
	}
	return constants.StandardMaxValue
}

// MaxScore is the weighted maximum the question contributes to any aggregate.
func (q Question) MaxScore() int {
	return q.MaxRawValue() * q.Weight
}

// Allows reports whether value is one of the question's answer values.
func (q Question) Allows(value int) bool {
	for _, a := range q.Answers {
		if a.Value == value {
			return true
		}
	}
	return false
}

// LabelFor returns the label of the answer carrying value.
// Scales start with an "unanswered" sentinel that shares value 0 with the
// explicit "no" answer, so the last match wins.
func (q Question) LabelFor(value int) (string, bool) {
	label, found := "", false
	for _, a := range q.Answers {
		if a.Value == value {
			label, found = a.Label, true
		}
	}
	return label, found
}

// Section groups related questions under a title.
type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

type questionRef struct {
	section  int
	question int
}

// Catalog is the validated, read-only question catalog with an id index.
// It is safe for concurrent use.
type Catalog struct {
	sections []Section
	index    map[string]questionRef
}

// NewCatalog validates sections and builds the question index.
func NewCatalog(sections []Section) (*Catalog, error) {
	if len(sections) == 0 {
		return nil, sharedErrors.ErrEmptyCatalog
	}

	c := &Catalog{
		sections: make([]Section, len(sections)),
		index:    make(map[string]questionRef),
	}
	seenSections := make(map[string]struct{}, len(sections))

	for si, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("section #%d: %w", si+1, sharedErrors.ErrEmptySectionID)
		}
		if _, dup := seenSections[s.ID]; dup {
			return nil, fmt.Errorf("section %s: %w", s.ID, sharedErrors.ErrDuplicateSection)
		}
		seenSections[s.ID] = struct{}{}

		questions := make([]Question, len(s.Questions))
		for qi, q := range s.Questions {
			if err := validateQuestion(q); err != nil {
				return nil, fmt.Errorf("section %s: %w", s.ID, err)
			}
			if _, dup := c.index[q.ID]; dup {
				return nil, fmt.Errorf("question %s: %w", q.ID, sharedErrors.ErrDuplicateQuestion)
			}
			q.Answers = append([]Answer(nil), q.Answers...)
			questions[qi] = q
			c.index[q.ID] = questionRef{section: si, question: qi}
		}

		c.sections[si] = Section{ID: s.ID, Title: s.Title, Questions: questions}
	}

	return c, nil
}

func validateQuestion(q Question) error {
	if q.ID == "" {
		return sharedErrors.ErrEmptyQuestionID
	}
	if q.Weight <= 0 {
		return fmt.Errorf("question %s: %w", q.ID, sharedErrors.ErrInvalidWeight)
	}
	if len(q.Answers) == 0 {
		return fmt.Errorf("question %s: %w", q.ID, sharedErrors.ErrNoAnswers)
	}
	for _, a := range q.Answers {
		if a.Value < 0 {
			return fmt.Errorf("question %s: %w", q.ID, sharedErrors.ErrNegativeAnswerValue)
		}
		if a.Value > q.MaxRawValue() {
			return fmt.Errorf("question %s answer %d: %w", q.ID, a.Value, sharedErrors.ErrAnswerExceedsMax)
		}
	}
	return nil
}

// Sections returns the catalog sections in order.
func (c *Catalog) Sections() []Section {
	if c == nil {
		return nil
	}
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = Section{ID: s.ID, Title: s.Title, Questions: append([]Question(nil), s.Questions...)}
	}
	return out
}

// Section looks up a section by ID.
func (c *Catalog) Section(id string) (Section, bool) {
	if c == nil {
		return Section{}, false
	}
	for _, s := range c.sections {
		if s.ID == id {
			return Section{ID: s.ID, Title: s.Title, Questions: append([]Question(nil), s.Questions...)}, true
		}
	}
	return Section{}, false
}

// Question looks up a question by ID in constant time.
func (c *Catalog) Question(id string) (Question, bool) {
	if c == nil {
		return Question{}, false
	}
	ref, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.sections[ref.section].Questions[ref.question], true
}

// Has reports whether the catalog defines the question ID.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// QuestionCount is the total number of questions across all sections.
func (c *Catalog) QuestionCount() int {
	if c == nil {
		return 0
	}
	return len(c.index)
}
