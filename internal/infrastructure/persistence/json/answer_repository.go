package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
	"github.com/khanhnv2901/nis2-assess/internal/shared/security"
)

const answersFileName = "answers.json"

// responseDTO is the data transfer object for JSON serialization
type responseDTO struct {
	SelectedAnswer *int   `json:"selected_answer"`
	Comments       string `json:"comments,omitempty"`
}

// storeDTO holds every response saved under one key
type storeDTO struct {
	UpdatedAt string                 `json:"updated_at"`
	Responses map[string]responseDTO `json:"responses"`
}

// AnswerRepository implements the assessment.Repository interface using JSON file storage
type AnswerRepository struct {
	filePath string
	mu       sync.RWMutex
	now      func() time.Time
}

// NewAnswerRepository creates a new JSON-based answer repository
func NewAnswerRepository(dataDir string) (*AnswerRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(dataDir, answersFileName)

	if !security.IsValidPath(filePath) {
		return nil, fmt.Errorf("invalid file path: %s", filePath)
	}

	repo := &AnswerRepository{
		filePath: filePath,
		now:      time.Now,
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := repo.saveToFile(map[string]storeDTO{}); err != nil {
			return nil, fmt.Errorf("failed to initialize answers file: %w", err)
		}
	}

	return repo, nil
}

// Path returns the file backing the repository
func (r *AnswerRepository) Path() string {
	return r.filePath
}

// Load returns the responses saved under key
func (r *AnswerRepository) Load(ctx context.Context, key string) (map[string]assessment.Response, error) {
	if key == "" {
		return nil, sharedErrors.ErrEmptyStoreKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stores, err := r.loadFromFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	return fromDTO(stores[key]), nil
}

// Save replaces the responses stored under key
func (r *AnswerRepository) Save(ctx context.Context, key string, responses map[string]assessment.Response) error {
	if key == "" {
		return sharedErrors.ErrEmptyStoreKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stores, err := r.loadFromFile()
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}

	stores[key] = storeDTO{
		UpdatedAt: r.now().UTC().Format(time.RFC3339),
		Responses: toDTO(responses),
	}

	if err := r.saveToFile(stores); err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}

	return nil
}

// Delete removes everything stored under key
func (r *AnswerRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return sharedErrors.ErrEmptyStoreKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stores, err := r.loadFromFile()
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}

	if _, ok := stores[key]; !ok {
		return nil
	}
	delete(stores, key)

	if err := r.saveToFile(stores); err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}

	return nil
}

// Helper methods

func (r *AnswerRepository) loadFromFile() (map[string]storeDTO, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]storeDTO{}, nil
		}
		return nil, err
	}

	stores := map[string]storeDTO{}
	if len(data) == 0 {
		return stores, nil
	}
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrDeserializationFailed, err)
	}
	if stores == nil {
		stores = map[string]storeDTO{}
	}

	return stores, nil
}

func (r *AnswerRepository) saveToFile(stores map[string]storeDTO) error {
	data, err := json.MarshalIndent(stores, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrSerializationFailed, err)
	}

	tmp := r.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, constants.DefaultFilePerm); err != nil {
		return err
	}
	return os.Rename(tmp, r.filePath)
}

func toDTO(responses map[string]assessment.Response) map[string]responseDTO {
	out := make(map[string]responseDTO, len(responses))
	for id, resp := range responses {
		out[id] = responseDTO{SelectedAnswer: resp.Selected, Comments: resp.Comment}
	}
	return out
}

func fromDTO(dto storeDTO) map[string]assessment.Response {
	out := make(map[string]assessment.Response, len(dto.Responses))
	for id, resp := range dto.Responses {
		out[id] = assessment.Response{Selected: resp.SelectedAnswer, Comment: resp.Comments}
	}
	return out
}
