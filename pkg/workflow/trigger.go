package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Engine is the external workflow engine collaborator. The real
// engine is opaque: we fire a trigger and get an acknowledgment back,
// nothing more.
type Engine interface {
	Trigger(ctx context.Context, externalRef string, payload map[string]interface{}) error
}

// HTTPEngine triggers workflows on a remote engine over HTTP.
type HTTPEngine struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPEngine creates an engine client. The per-call deadline comes
// from the caller's context; the client timeout is a hard backstop.
func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type engineTriggerResponse struct {
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// Trigger fires the workflow and interprets the backend
// acknowledgment. Any transport failure, non-2xx status, or explicit
// rejection comes back as an error wrapping ErrExternalCallFailed.
func (e *HTTPEngine) Trigger(ctx context.Context, externalRef string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrExternalCallFailed, err)
	}

	endpoint := e.BaseURL + externalRef
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalCallFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalCallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrExternalCallFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: engine returned %d: %s", ErrExternalCallFailed, resp.StatusCode, string(respBody))
	}

	var ack engineTriggerResponse
	if err := json.Unmarshal(respBody, &ack); err != nil {
		// Some engines answer 2xx with an empty body; treat that as
		// accepted.
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		return fmt.Errorf("%w: decode ack: %v", ErrExternalCallFailed, err)
	}
	if !ack.Accepted {
		return fmt.Errorf("%w: engine rejected trigger: %s", ErrExternalCallFailed, ack.Error)
	}
	return nil
}
