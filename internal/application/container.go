package application

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	assessmentapp "github.com/khanhnv2901/nis2-assess/internal/application/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/catalog"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/export"
	"github.com/khanhnv2901/nis2-assess/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/nis2-assess/internal/infrastructure/persistence/sqlite"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config selects the catalogs and the answer storage.
type Config struct {
	DataDir          string
	Backend          string
	StoreKey         string
	QuestionsPath    string
	RequirementsPath string
	ChromePath       string
}

// Container holds all application services and repositories
// This is a simple dependency injection container
type Container struct {
	Catalog    *catalog.Bundle
	AnswerRepo assessment.Repository

	Assessment *assessmentapp.Service
	Exporter   *export.Exporter

	closer io.Closer
}

// NewContainer creates a new application service container
func NewContainer(ctx context.Context, cfg Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StoreKey == "" {
		cfg.StoreKey = constants.DefaultStoreKey
	}

	bundle, err := catalog.Load(cfg.QuestionsPath, cfg.RequirementsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if orphans := bundle.Orphans(); len(orphans) > 0 {
		logger.Info("requirements reference questions missing from the catalog",
			zap.Int("count", len(orphans)))
		for _, o := range orphans {
			logger.Debug("requirement references unknown question",
				zap.String("requirement_id", o.RequirementID),
				zap.String("question_id", o.QuestionID))
		}
	}

	repo, closer, err := newRepository(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := assessmentapp.NewService(ctx, bundle.Questions, bundle.Requirements, bundle.Framework, repo, cfg.StoreKey, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return &Container{
		Catalog:    bundle,
		AnswerRepo: repo,
		Assessment: svc,
		Exporter:   export.NewExporter(export.NewChromeRenderer(cfg.ChromePath), logger),
		closer:     closer,
	}, nil
}

// Close releases the storage backend.
func (c *Container) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func newRepository(cfg Config) (assessment.Repository, io.Closer, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendJSON:
		repo, err := json.NewAnswerRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create answer repository: %w", err)
		}
		return repo, nil, nil
	case BackendSQLite:
		repo, err := sqlite.NewAnswerRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create answer repository: %w", err)
		}
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("store backend %q: %w", cfg.Backend, sharedErrors.ErrInvalidInput)
	}
}
