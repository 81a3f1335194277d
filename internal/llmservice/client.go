package llmservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrModelNotInstalled is returned by Generate when the backend reports 404
// for the requested model.
var ErrModelNotInstalled = errors.New("model is not installed")

// ConnectionError marks failures where the backend process could not be
// reached at all, as opposed to the backend answering with an error status.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to generation backend: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError is a non-200 answer from a reachable backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Client talks to a local Ollama-compatible backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	probe      *http.Client
	embed      *http.Client
}

const (
	probeConnectTimeout = 2 * time.Second
	probeTotalTimeout   = 3 * time.Second
	embedConnectTimeout = 1 * time.Second
	embedTotalTimeout   = 2 * time.Second
)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		probe: &http.Client{
			Timeout: probeTotalTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: probeConnectTimeout}).DialContext,
			},
		},
		embed: &http.Client{
			Timeout: embedTotalTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: embedConnectTimeout}).DialContext,
			},
		},
	}
}

type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Available reports whether the backend process is reachable. Any HTTP
// answer counts as alive, even an error status below 500; only a transport
// failure means the service is down. This is a liveness check, not a
// capability check.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Availability probe failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// Generate issues one completion request. The caller bounds the call through
// ctx; there are no retries here.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error) {
	payload := generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: opts,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrModelNotInstalled, model)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	return result.Response, nil
}

// Embeddings fetches one embedding vector. A missing embedding field decodes
// to nil, which callers treat the same as a failure.
func (c *Client) Embeddings(ctx context.Context, model, prompt string) ([]float64, error) {
	payload := embeddingRequest{Model: model, Prompt: prompt}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.embed.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	return result.Embedding, nil
}

// IsConnectionError reports whether err came from failing to reach the
// backend rather than from the backend itself.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
