package openai

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
)

// filePurpose marks uploads as retrieval documents.
const filePurpose = "assistants"

// fileObject is the response of the Files API.
type fileObject struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int    `json:"bytes"`
	Purpose  string `json:"purpose"`
}

// UploadFile uploads content as a standalone file and returns its ID.
func (c *Client) UploadFile(ctx context.Context, filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("purpose", filePurpose); err != nil {
		return "", fmt.Errorf("write purpose: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var file fileObject
	if err := c.do(ctx, endpointFiles, http.MethodPost, "/files", &buf, w.FormDataContentType(), &file); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if file.ID == "" {
		return "", fmt.Errorf("upload %s: no file id returned", filename)
	}
	return file.ID, nil
}
