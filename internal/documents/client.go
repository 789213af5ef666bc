// Package documents is the client for the external PDF-rendering service.
// The renderer's internals are out of scope; this package only speaks its
// request/response contract. Failures propagate to the caller, who owns the
// user-facing fallback message — there are no retries here.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"crm-assistant/internal/common/httpclient"
)

var (
	ErrDocumentRenderFailed = errors.New("DOCUMENT_RENDER_FAILED")
)

// Trigger requests generation of one document.
type Trigger interface {
	Trigger(ctx context.Context, docType string, payload interface{}) (string, error)
}

type Client struct {
	baseURL string
	client  *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  httpclient.NewClient(timeout),
	}
}

type triggerRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type triggerResponse struct {
	URL string `json:"url"`
}

// Trigger posts a render job and returns the download URL of the generated
// document.
func (c *Client) Trigger(ctx context.Context, docType string, payload interface{}) (string, error) {
	body, err := json.Marshal(triggerRequest{Type: docType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrDocumentRenderFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRenderFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRenderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDocumentRenderFailed, resp.StatusCode)
	}

	var out triggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrDocumentRenderFailed, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: empty url in response", ErrDocumentRenderFailed)
	}

	return out.URL, nil
}
