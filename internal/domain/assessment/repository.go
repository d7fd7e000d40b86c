package assessment

import "context"

// Repository defines the interface for answer persistence.
// Responses are stored under a single key per assessment.
type Repository interface {
	// Load returns the responses saved under key. A missing key yields an empty map.
	Load(ctx context.Context, key string) (map[string]Response, error)

	// Save replaces the responses stored under key.
	Save(ctx context.Context, key string, responses map[string]Response) error

	// Delete removes everything stored under key.
	Delete(ctx context.Context, key string) error
}
