package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Service provides application-level assessment operations. It owns the
// current answer snapshot and persists every change under one store key.
type Service struct {
	mu     sync.Mutex
	store  assessment.Store
	reqs   []compliance.Requirement
	fw     compliance.Framework
	repo   assessment.Repository
	key    string
	logger *zap.Logger
	now    func() time.Time
}

// NewService loads the answers persisted under key and returns a service over them.
// Persisted entries the catalog no longer accepts are dropped and logged.
// A framework without an ID means the bundled NIS2 framework.
func NewService(ctx context.Context, cat *assessment.Catalog, reqs []compliance.Requirement, fw compliance.Framework, repo assessment.Repository, key string, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fw.ID == "" {
		fw = compliance.DefaultFramework()
	}

	responses, err := repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	store, problems := assessment.Restore(cat, responses)
	for _, p := range problems {
		logger.Warn("dropped persisted answer", zap.String("store_key", key), zap.Error(p))
	}

	return &Service{
		store:  store,
		reqs:   append([]compliance.Requirement(nil), reqs...),
		fw:     fw,
		repo:   repo,
		key:    key,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Catalog returns the question catalog the service answers.
func (s *Service) Catalog() *assessment.Catalog {
	return s.Snapshot().Catalog()
}

// Requirements returns a copy of the requirements evaluated by Compliance.
func (s *Service) Requirements() []compliance.Requirement {
	return append([]compliance.Requirement(nil), s.reqs...)
}

// Framework returns the regulatory framework the requirements belong to.
func (s *Service) Framework() compliance.Framework {
	return s.fw
}

// Snapshot returns the current answer store.
func (s *Service) Snapshot() assessment.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// SetAnswer records value for questionID and persists the result.
func (s *Service) SetAnswer(ctx context.Context, questionID string, value int) (assessment.AnsweredQuestion, error) {
	return s.update(ctx, questionID, func(st assessment.Store) (assessment.Store, error) {
		return st.SetAnswer(questionID, value)
	})
}

// SetComment records a comment for questionID and persists the result.
func (s *Service) SetComment(ctx context.Context, questionID, text string) (assessment.AnsweredQuestion, error) {
	return s.update(ctx, questionID, func(st assessment.Store) (assessment.Store, error) {
		return st.SetComment(questionID, text), nil
	})
}

// ClearAnswer removes the selected answer of questionID and persists the result.
func (s *Service) ClearAnswer(ctx context.Context, questionID string) (assessment.AnsweredQuestion, error) {
	return s.update(ctx, questionID, func(st assessment.Store) (assessment.Store, error) {
		return st.ClearAnswer(questionID), nil
	})
}

// Reset discards every answer and comment.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset answers: %w", err)
	}
	s.store = s.store.Reset()
	s.logger.Info("assessment reset", zap.String("store_key", s.key))
	return nil
}

// Scores evaluates the current answers.
func (s *Service) Scores() scoring.Result {
	return scoring.Evaluate(s.Snapshot())
}

// Compliance evaluates every requirement against the current answers.
func (s *Service) Compliance() ([]compliance.RequirementStatus, compliance.Summary) {
	statuses := compliance.EvaluateAll(s.reqs, s.Snapshot())
	return statuses, compliance.Summarize(statuses, s.reqs)
}

// Report assembles the full report for the current answers.
func (s *Service) Report(meta report.Metadata) (*report.Report, error) {
	r, err := report.Assemble(meta, s.Snapshot(), s.reqs, s.fw, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to assemble report: %w", err)
	}
	return r, nil
}

func (s *Service) update(ctx context.Context, questionID string, mutate func(assessment.Store) (assessment.Store, error)) (assessment.AnsweredQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Catalog().Has(questionID) {
		return assessment.AnsweredQuestion{}, fmt.Errorf("question %s: %w", questionID, sharedErrors.ErrQuestionNotFound)
	}

	next, err := mutate(s.store)
	if err != nil {
		return assessment.AnsweredQuestion{}, err
	}
	if err := s.repo.Save(ctx, s.key, next.Responses()); err != nil {
		return assessment.AnsweredQuestion{}, fmt.Errorf("failed to save answers: %w", err)
	}
	s.store = next

	q, _ := next.Question(questionID)
	s.logger.Debug("answer updated", zap.String("question_id", questionID), zap.Bool("answered", q.Answered()))
	return q, nil
}
