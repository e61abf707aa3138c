package driven

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// FileUploader pushes standalone files to the remote service.
type FileUploader interface {
	// UploadFile uploads content under filename and returns the file ID.
	UploadFile(ctx context.Context, filename string, content []byte) (string, error)
}

// VectorStoreService manages the remote search index.
type VectorStoreService interface {
	// CreateVectorStore creates an index and returns its ID.
	CreateVectorStore(ctx context.Context, name string) (string, error)

	// VectorStoreExists reports whether the index is still reachable.
	VectorStoreExists(ctx context.Context, id string) (bool, error)

	// CreateFileBatch submits files to be attached to the index.
	CreateFileBatch(ctx context.Context, indexID string, fileIDs []string) (domain.FileBatch, error)

	// GetFileBatch returns the current state of a batch.
	GetFileBatch(ctx context.Context, indexID, batchID string) (domain.FileBatch, error)
}

// AssistantService manages the remote serving agent.
type AssistantService interface {
	// CreateAssistant creates an agent and returns its ID.
	CreateAssistant(ctx context.Context, spec domain.AgentSpec) (string, error)

	// AttachVectorStores binds indexes to the agent's retrieval configuration.
	AttachVectorStores(ctx context.Context, assistantID string, indexIDs []string) error
}
