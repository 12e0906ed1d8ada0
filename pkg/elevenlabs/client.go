// Package elevenlabs provides a minimal client for the ElevenLabs
// Conversational AI agent API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the ElevenLabs API.
const defaultBaseURL = "https://api.elevenlabs.io"

// Client defines the ElevenLabs operations used by the pipeline.
type Client interface {
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*CreateAgentResponse, error)
}

// CreateAgentRequest is the body for POST /v1/convai/agents/create.
type CreateAgentRequest struct {
	Name               string             `json:"name"`
	ConversationConfig ConversationConfig `json:"conversation_config"`
}

// ConversationConfig holds the agent and TTS settings.
type ConversationConfig struct {
	Agent AgentConfig `json:"agent"`
	TTS   *TTSConfig  `json:"tts,omitempty"`
}

// AgentConfig defines the agent prompt and greeting.
type AgentConfig struct {
	Prompt       PromptConfig `json:"prompt"`
	FirstMessage string       `json:"first_message,omitempty"`
	Language     string       `json:"language,omitempty"`
}

// PromptConfig wraps the agent system prompt.
type PromptConfig struct {
	Prompt string `json:"prompt"`
}

// TTSConfig selects the synthesis voice.
type TTSConfig struct {
	VoiceID string `json:"voice_id"`
}

// CreateAgentResponse is the response from agent creation.
type CreateAgentResponse struct {
	AgentID string `json:"agent_id"`
}

// APIError is returned when ElevenLabs responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new ElevenLabs client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) CreateAgent(ctx context.Context, req CreateAgentRequest) (*CreateAgentResponse, error) {
	var resp CreateAgentResponse
	if err := c.post(ctx, "/v1/convai/agents/create", req, &resp); err != nil {
		return nil, eris.Wrap(err, "elevenlabs: create agent")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
