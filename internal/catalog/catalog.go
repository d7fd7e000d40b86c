// Package catalog loads the question and requirement catalogs from YAML.
// The bundled English catalogs are embedded; alternative files can be
// supplied by path.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
)

//go:embed data/*.yaml
var bundled embed.FS

const (
	questionsFile    = "data/questions.yaml"
	requirementsFile = "data/requirements.yaml"

	scaleStandard = "standard"
	scalePolicy   = "policy"
)

type questionsDoc struct {
	Scales   map[string][]assessment.Answer `yaml:"scales"`
	Sections []sectionDoc                   `yaml:"sections"`
}

type sectionDoc struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	Questions []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	ID      string              `yaml:"id"`
	Text    string              `yaml:"text"`
	Weight  int                 `yaml:"weight"`
	Policy  bool                `yaml:"policy"`
	Scale   string              `yaml:"scale"`
	Answers []assessment.Answer `yaml:"answers"`
}

type requirementsDoc struct {
	Framework    string                   `yaml:"framework"`
	Requirements []compliance.Requirement `yaml:"requirements"`
}

// Bundle is a loaded pair of catalogs.
type Bundle struct {
	Questions    *assessment.Catalog
	Requirements []compliance.Requirement
	Framework    compliance.Framework
}

// ParseQuestions decodes a questions document and builds the indexed catalog.
func ParseQuestions(r io.Reader) (*assessment.Catalog, error) {
	var doc questionsDoc
	if err := decodeStrict(r, &doc); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	sections := make([]assessment.Section, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sec := assessment.Section{ID: s.ID, Title: s.Title, Questions: make([]assessment.Question, 0, len(s.Questions))}
		for _, q := range s.Questions {
			answers, err := resolveAnswers(doc.Scales, q)
			if err != nil {
				return nil, err
			}
			sec.Questions = append(sec.Questions, assessment.Question{
				ID:               q.ID,
				Text:             q.Text,
				Answers:          answers,
				Weight:           q.Weight,
				IsPolicyQuestion: q.Policy,
			})
		}
		sections = append(sections, sec)
	}

	return assessment.NewCatalog(sections)
}

func resolveAnswers(scales map[string][]assessment.Answer, q questionDoc) ([]assessment.Answer, error) {
	if len(q.Answers) > 0 {
		return q.Answers, nil
	}
	name := q.Scale
	if name == "" {
		name = scaleStandard
		if q.Policy {
			name = scalePolicy
		}
	}
	answers, ok := scales[name]
	if !ok {
		return nil, fmt.Errorf("question %s: unknown answer scale %q", q.ID, name)
	}
	return answers, nil
}

// ParseRequirements decodes and validates a requirements document.
func ParseRequirements(r io.Reader) ([]compliance.Requirement, compliance.Framework, error) {
	var doc requirementsDoc
	if err := decodeStrict(r, &doc); err != nil {
		return nil, compliance.Framework{}, fmt.Errorf("decode requirements: %w", err)
	}
	if err := compliance.ValidateRequirements(doc.Requirements); err != nil {
		return nil, compliance.Framework{}, err
	}

	fw := compliance.DefaultFramework()
	if doc.Framework != "" {
		found := compliance.GetFramework(doc.Framework)
		if found == nil {
			return nil, compliance.Framework{}, fmt.Errorf("unknown framework %q", doc.Framework)
		}
		fw = *found
	}
	return doc.Requirements, fw, nil
}

func decodeStrict(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}

// DefaultQuestions returns the bundled questionnaire.
func DefaultQuestions() (*assessment.Catalog, error) {
	data, err := bundled.ReadFile(questionsFile)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(bytes.NewReader(data))
}

// DefaultRequirements returns the bundled NIS2 requirements.
func DefaultRequirements() ([]compliance.Requirement, error) {
	data, err := bundled.ReadFile(requirementsFile)
	if err != nil {
		return nil, err
	}
	reqs, _, err := ParseRequirements(bytes.NewReader(data))
	return reqs, err
}

// Load reads both catalogs. Empty paths select the bundled defaults.
func Load(questionsPath, requirementsPath string) (*Bundle, error) {
	b := &Bundle{}

	qr, closeQ, err := open(questionsPath, questionsFile)
	if err != nil {
		return nil, err
	}
	defer closeQ()
	if b.Questions, err = ParseQuestions(qr); err != nil {
		return nil, fmt.Errorf("questions %s: %w", describe(questionsPath), err)
	}

	rr, closeR, err := open(requirementsPath, requirementsFile)
	if err != nil {
		return nil, err
	}
	defer closeR()
	if b.Requirements, b.Framework, err = ParseRequirements(rr); err != nil {
		return nil, fmt.Errorf("requirements %s: %w", describe(requirementsPath), err)
	}

	return b, nil
}

// Orphans reports requirement references the loaded questionnaire lacks.
func (b *Bundle) Orphans() []compliance.OrphanReference {
	return compliance.ValidateReferences(b.Requirements, b.Questions)
}

func open(path, fallback string) (io.Reader, func(), error) {
	if path == "" {
		data, err := bundled.ReadFile(fallback)
		if err != nil {
			return nil, nil, err
		}
		return bytes.NewReader(data), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func describe(path string) string {
	if path == "" {
		return "(bundled)"
	}
	return path
}
