package assessment

import (
	"fmt"

	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Response is the user state recorded for one question.
type Response struct {
	Selected *int   `json:"selected_answer,omitempty"`
	Comment  string `json:"comments,omitempty"`
}

// Answered reports whether an answer value has been selected.
func (r Response) Answered() bool {
	return r.Selected != nil
}

func (r Response) empty() bool {
	return r.Selected == nil && r.Comment == ""
}

// AnsweredQuestion joins a catalog question with its recorded response.
type AnsweredQuestion struct {
	Question
	SelectedAnswer *int
	Comments       string
}

// Answered reports whether the question has a selected answer.
func (q AnsweredQuestion) Answered() bool {
	return q.SelectedAnswer != nil
}

// AnsweredSection is a section view over a Store snapshot.
type AnsweredSection struct {
	ID        string
	Title     string
	Questions []AnsweredQuestion
}

// AnsweredCount is the number of questions in the section with a selected answer.
func (s AnsweredSection) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Answered() {
			n++
		}
	}
	return n
}

// Store is an immutable snapshot of the answers given against a catalog.
// Every mutation returns a new Store and leaves the receiver untouched.
type Store struct {
	catalog   *Catalog
	responses map[string]Response
}

// NewStore returns an empty answer store over catalog.
func NewStore(catalog *Catalog) Store {
	return Store{catalog: catalog, responses: map[string]Response{}}
}

// Restore rebuilds a store from persisted responses. Entries for unknown
// questions or with values the question does not allow are dropped and
// reported; the rest are kept.
func Restore(catalog *Catalog, responses map[string]Response) (Store, []error) {
	s := NewStore(catalog)
	var problems []error

	for id, r := range responses {
		q, ok := catalog.Question(id)
		if !ok {
			problems = append(problems, fmt.Errorf("question %s: %w", id, sharedErrors.ErrQuestionNotFound))
			continue
		}
		if r.Selected != nil && !q.Allows(*r.Selected) {
			problems = append(problems, fmt.Errorf("question %s value %d: %w", id, *r.Selected, sharedErrors.ErrInvalidAnswerValue))
			r.Selected = nil
		}
		if r.Selected != nil {
			v := *r.Selected
			r.Selected = &v
		}
		if !r.empty() {
			s.responses[id] = r
		}
	}

	return s, problems
}

// Catalog returns the catalog the store answers.
func (s Store) Catalog() *Catalog {
	return s.catalog
}

// SetAnswer records value as the selected answer of questionID.
// Unknown question IDs leave the store unchanged. A value that is not one of
// the question's answer values fails with ErrInvalidAnswerValue.
func (s Store) SetAnswer(questionID string, value int) (Store, error) {
	q, ok := s.catalog.Question(questionID)
	if !ok {
		return s, nil
	}
	if !q.Allows(value) {
		return s, fmt.Errorf("question %s value %d: %w", questionID, value, sharedErrors.ErrInvalidAnswerValue)
	}

	next := s.clone()
	r := next.responses[questionID]
	v := value
	r.Selected = &v
	next.responses[questionID] = r
	return next, nil
}

// ClearAnswer removes the selected answer of questionID, keeping its comment.
func (s Store) ClearAnswer(questionID string) Store {
	if !s.catalog.Has(questionID) {
		return s
	}
	next := s.clone()
	r := next.responses[questionID]
	r.Selected = nil
	next.put(questionID, r)
	return next
}

// SetComment records a free-text comment for questionID.
// Unknown question IDs leave the store unchanged.
func (s Store) SetComment(questionID, text string) Store {
	if !s.catalog.Has(questionID) {
		return s
	}
	next := s.clone()
	r := next.responses[questionID]
	r.Comment = text
	next.put(questionID, r)
	return next
}

// Reset returns an empty store over the same catalog.
func (s Store) Reset() Store {
	return NewStore(s.catalog)
}

// Response returns the recorded response of questionID.
func (s Store) Response(questionID string) (Response, bool) {
	r, ok := s.responses[questionID]
	return r, ok
}

// Responses returns a copy of every recorded response keyed by question ID.
func (s Store) Responses() map[string]Response {
	out := make(map[string]Response, len(s.responses))
	for id, r := range s.responses {
		if r.Selected != nil {
			v := *r.Selected
			r.Selected = &v
		}
		out[id] = r
	}
	return out
}

// Question returns the catalog question joined with its response.
func (s Store) Question(questionID string) (AnsweredQuestion, bool) {
	q, ok := s.catalog.Question(questionID)
	if !ok {
		return AnsweredQuestion{}, false
	}
	return s.join(q), true
}

// Sections returns every catalog section joined with the recorded responses.
func (s Store) Sections() []AnsweredSection {
	sections := s.catalog.Sections()
	out := make([]AnsweredSection, len(sections))
	for i, sec := range sections {
		out[i] = s.joinSection(sec)
	}
	return out
}

// Section returns one section joined with the recorded responses.
func (s Store) Section(sectionID string) (AnsweredSection, bool) {
	sec, ok := s.catalog.Section(sectionID)
	if !ok {
		return AnsweredSection{}, false
	}
	return s.joinSection(sec), true
}

// Questions returns every catalog question, in catalog order, joined with its response.
func (s Store) Questions() []AnsweredQuestion {
	var out []AnsweredQuestion
	for _, sec := range s.Sections() {
		out = append(out, sec.Questions...)
	}
	return out
}

// AnsweredCount is the number of catalog questions with a selected answer.
func (s Store) AnsweredCount() int {
	n := 0
	for id, r := range s.responses {
		if r.Answered() && s.catalog.Has(id) {
			n++
		}
	}
	return n
}

func (s Store) join(q Question) AnsweredQuestion {
	aq := AnsweredQuestion{Question: q}
	if r, ok := s.responses[q.ID]; ok {
		if r.Selected != nil {
			v := *r.Selected
			aq.SelectedAnswer = &v
		}
		aq.Comments = r.Comment
	}
	return aq
}

func (s Store) joinSection(sec Section) AnsweredSection {
	qs := make([]AnsweredQuestion, len(sec.Questions))
	for i, q := range sec.Questions {
		qs[i] = s.join(q)
	}
	return AnsweredSection{ID: sec.ID, Title: sec.Title, Questions: qs}
}

func (s Store) clone() Store {
	next := Store{catalog: s.catalog, responses: make(map[string]Response, len(s.responses)+1)}
	for id, r := range s.responses {
		next.responses[id] = r
	}
	return next
}

func (s Store) put(questionID string, r Response) {
	if r.empty() {
		delete(s.responses, questionID)
		return
	}
	s.responses[questionID] = r
}
