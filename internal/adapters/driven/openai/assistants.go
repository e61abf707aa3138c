package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// retrievalTool is the assistant tool type for vector store search.
const retrievalTool = "file_search"

type tool struct {
	Type string `json:"type"`
}

type createAssistantRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	Tools        []tool `json:"tools,omitempty"`
}

type updateAssistantRequest struct {
	ToolResources toolResources `json:"tool_resources"`
}

type toolResources struct {
	FileSearch fileSearchResources `json:"file_search"`
}

type fileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids"`
}

type assistant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

// CreateAssistant creates an assistant and returns its ID.
func (c *Client) CreateAssistant(ctx context.Context, spec domain.AgentSpec) (string, error) {
	in := createAssistantRequest{
		Name:         spec.Name,
		Instructions: spec.Instructions,
		Model:        spec.Model,
	}
	if spec.Retrieval {
		in.Tools = []tool{{Type: retrievalTool}}
	}

	var out assistant
	if err := c.doJSON(ctx, endpointAssistants, http.MethodPost, "/assistants", in, &out); err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("create assistant: no id returned")
	}
	return out.ID, nil
}

// AttachVectorStores sets the assistant's file search vector stores.
func (c *Client) AttachVectorStores(ctx context.Context, assistantID string, indexIDs []string) error {
	in := updateAssistantRequest{
		ToolResources: toolResources{
			FileSearch: fileSearchResources{VectorStoreIDs: indexIDs},
		},
	}
	path := "/assistants/" + url.PathEscape(assistantID)
	if err := c.doJSON(ctx, endpointAssistants, http.MethodPost, path, in, nil); err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	return nil
}
