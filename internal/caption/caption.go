// Package caption integrates the external caption-generation service. The
// service is an opaque collaborator: it takes a plain-text description and
// returns a short caption, and its failures are surfaced verbatim so the UI
// can display them. A failed generation never touches stored state — it only
// affects an in-memory draft field prior to publish.
package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator produces a caption for a video description.
// Implemented by HTTPGenerator (production) and StaticGenerator (tests).
type Generator interface {
	// Generate must be invoked with a pre-validated non-empty description.
	Generate(ctx context.Context, description string) (string, error)
}

// HTTPGenerator calls a JSON-over-HTTP caption endpoint.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGenerator creates a generator for the given endpoint.
func NewHTTPGenerator(endpoint string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Description string `json:"description"`
}

type generateResponse struct {
	Caption string `json:"caption"`
}

// Generate posts the description and returns the service's caption.
// Non-2xx responses become errors carrying the response body verbatim.
func (g *HTTPGenerator) Generate(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("generate caption: description is empty")
	}

	body, err := json.Marshal(generateRequest{Description: description})
	if err != nil {
		return "", fmt.Errorf("generate caption: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("generate caption: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate caption: %w", err)
	}
	defer resp.Body.Close()

	// Cap the body read: the service returns short captions, anything
	// larger is misbehavior.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("generate caption: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("caption service: %s", strings.TrimSpace(string(data)))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("generate caption: decode response: %w", err)
	}
	if out.Caption == "" {
		return "", fmt.Errorf("caption service: empty caption in response")
	}
	return out.Caption, nil
}

// StaticGenerator returns a fixed caption or error. Used in tests and
// offline runs.
type StaticGenerator struct {
	Caption string
	Err     error
}

// Generate returns the configured caption or error.
func (g StaticGenerator) Generate(ctx context.Context, description string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	return g.Caption, nil
}
