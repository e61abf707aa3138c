package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

type vectorStore struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type fileBatch struct {
	ID            string `json:"id"`
	VectorStoreID string `json:"vector_store_id"`
	Status        string `json:"status"`
	FileCounts    struct {
		InProgress int `json:"in_progress"`
		Completed  int `json:"completed"`
		Failed     int `json:"failed"`
		Cancelled  int `json:"cancelled"`
		Total      int `json:"total"`
	} `json:"file_counts"`
}

func (b fileBatch) toDomain() domain.FileBatch {
	return domain.FileBatch{
		ID:        b.ID,
		IndexID:   b.VectorStoreID,
		Status:    b.Status,
		Completed: b.FileCounts.Completed,
		Failed:    b.FileCounts.Failed,
		Total:     b.FileCounts.Total,
	}
}

// CreateVectorStore creates a vector store and returns its ID.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (string, error) {
	var vs vectorStore
	in := map[string]string{"name": name}
	if err := c.doJSON(ctx, endpointVectorStores, http.MethodPost, "/vector_stores", in, &vs); err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	if vs.ID == "" {
		return "", fmt.Errorf("create vector store: no id returned")
	}
	return vs.ID, nil
}

// VectorStoreExists reports whether the vector store can still be retrieved.
func (c *Client) VectorStoreExists(ctx context.Context, id string) (bool, error) {
	var vs vectorStore
	err := c.doJSON(ctx, endpointVectorStores, http.MethodGet, "/vector_stores/"+url.PathEscape(id), nil, &vs)
	switch {
	case IsNotFound(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("retrieve vector store: %w", err)
	}
	return vs.Status != "expired", nil
}

// CreateFileBatch attaches files to a vector store in one batch.
func (c *Client) CreateFileBatch(ctx context.Context, indexID string, fileIDs []string) (domain.FileBatch, error) {
	var batch fileBatch
	in := map[string][]string{"file_ids": fileIDs}
	path := "/vector_stores/" + url.PathEscape(indexID) + "/file_batches"
	if err := c.doJSON(ctx, endpointFileBatches, http.MethodPost, path, in, &batch); err != nil {
		return domain.FileBatch{}, fmt.Errorf("create file batch: %w", err)
	}
	if batch.VectorStoreID == "" {
		batch.VectorStoreID = indexID
	}
	return batch.toDomain(), nil
}

// GetFileBatch returns the current state of a file batch.
func (c *Client) GetFileBatch(ctx context.Context, indexID, batchID string) (domain.FileBatch, error) {
	var batch fileBatch
	path := "/vector_stores/" + url.PathEscape(indexID) + "/file_batches/" + url.PathEscape(batchID)
	if err := c.doJSON(ctx, endpointFileBatches, http.MethodGet, path, nil, &batch); err != nil {
		return domain.FileBatch{}, fmt.Errorf("retrieve file batch: %w", err)
	}
	if batch.VectorStoreID == "" {
		batch.VectorStoreID = indexID
	}
	return batch.toDomain(), nil
}
