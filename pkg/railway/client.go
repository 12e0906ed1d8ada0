// Package railway provides an MCP (Model Context Protocol) client for the
// Railway MCP server over streamable HTTP. The server exposes Railway
// operations as tools (project_create, service_create_from_repo, ...) whose
// results come back as human-readable text.
package railway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
)

const protocolVersion = "2025-03-26"

// Client defines the MCP operations used by the deployment provider.
type Client interface {
	// Connect initializes the MCP session. Must be called before CallTool.
	Connect(ctx context.Context) error
	// CallTool invokes a named tool and returns the text of its first
	// content block.
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	// Connected reports whether an MCP session is established.
	Connected() bool
	// Close terminates the MCP session. Safe to call when not connected.
	Close() error
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithCredentials appends the Smithery api_key and profile query parameters.
func WithCredentials(apiKey, profile string) Option {
	return func(c *httpClient) {
		c.apiKey = apiKey
		c.profile = profile
	}
}

// httpClient implements Client over streamable HTTP.
type httpClient struct {
	baseURL string
	apiKey  string
	profile string
	http    *http.Client

	mu        sync.Mutex
	sessionID string
	connected bool
	nextID    atomic.Int64
}

// NewClient creates a new Railway MCP client for the given server URL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int64 `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toolResult is the result payload of a tools/call response.
type toolResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *httpClient) endpoint() string {
	if c.apiKey == "" && c.profile == "" {
		return c.baseURL
	}
	q := url.Values{}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	if c.profile != "" {
		q.Set("profile", c.profile)
	}
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func (c *httpClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	id := c.nextID.Add(1)
	initReq := rpcRequest{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  "initialize",
		Params: map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{},
			"clientInfo": map[string]any{
				"name":    "leadgen-cli",
				"version": "1.0.0",
			},
		},
	}

	resp, sessionID, err := c.roundTrip(ctx, initReq, "")
	if err != nil {
		return eris.Wrap(err, "railway: initialize")
	}
	if resp == nil {
		return eris.New("railway: initialize: empty response")
	}
	if resp.Error != nil {
		return eris.New(fmt.Sprintf("railway: initialize: %s", resp.Error.Message))
	}
	c.sessionID = sessionID

	// The initialized notification completes the handshake; servers that do
	// not require it return 202 with an empty body.
	notif := rpcRequest{JSONRPC: "2.0", Method: "notifications/initialized"}
	if _, _, err := c.roundTrip(ctx, notif, c.sessionID); err != nil {
		return eris.Wrap(err, "railway: initialized notification")
	}

	c.connected = true
	return nil
}

func (c *httpClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *httpClient) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return "", eris.New("railway: not connected")
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	if args == nil {
		args = map[string]any{}
	}

	id := c.nextID.Add(1)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  "tools/call",
		Params: map[string]any{
			"name":      name,
			"arguments": args,
		},
	}

	resp, _, err := c.roundTrip(ctx, req, sessionID)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("railway: call tool %s", name))
	}
	if resp == nil {
		return "", eris.New(fmt.Sprintf("railway: tool %s: empty response", name))
	}
	if resp.Error != nil {
		return "", eris.New(fmt.Sprintf("railway: tool %s: %s", name, resp.Error.Message))
	}

	var result toolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("railway: decode tool %s result", name))
	}
	if len(result.Content) == 0 {
		return "", eris.New(fmt.Sprintf("railway: tool %s returned no content", name))
	}
	if result.IsError {
		return "", eris.New(fmt.Sprintf("railway: tool %s: %s", name, result.Content[0].Text))
	}
	return result.Content[0].Text, nil
}

func (c *httpClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false

	// Best-effort session teardown per the streamable HTTP transport.
	req, err := http.NewRequest(http.MethodDelete, c.endpoint(), nil)
	if err != nil {
		return nil
	}
	if c.sessionID != "" {
		req.Header.Set("Mcp-Session-Id", c.sessionID)
	}
	if resp, err := c.http.Do(req); err == nil {
		resp.Body.Close()
	}
	c.sessionID = ""
	return nil
}

// roundTrip posts one JSON-RPC message and decodes the response, which may
// arrive as plain JSON or as a text/event-stream. Returns the response (nil
// for notifications) and any session ID the server assigned.
func (c *httpClient) roundTrip(ctx context.Context, rpc rpcRequest, sessionID string) (*rpcResponse, string, error) {
	buf, err := json.Marshal(rpc)
	if err != nil {
		return nil, "", eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(buf))
	if err != nil {
		return nil, "", eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	newSession := resp.Header.Get("Mcp-Session-Id")
	if newSession == "" {
		newSession = sessionID
	}

	if resp.StatusCode == http.StatusAccepted {
		// Notification accepted; no body.
		return nil, newSession, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", eris.New(fmt.Sprintf("railway: HTTP %d: %s", resp.StatusCode, string(body)))
	}

	// Notifications may also come back as 200 with an empty body.
	if rpc.ID == nil {
		io.Copy(io.Discard, resp.Body)
		return nil, newSession, nil
	}

	var out rpcResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		data, err := firstSSEData(resp.Body)
		if err != nil {
			return nil, "", err
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, "", eris.Wrap(err, "decode sse response")
		}
	} else {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, "", eris.Wrap(err, "decode response")
		}
	}
	return &out, newSession, nil
}

// firstSSEData returns the payload of the first data: event in an SSE stream.
func firstSSEData(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data:") {
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			continue
		}
		if line == "" && data.Len() > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read sse stream")
	}
	if data.Len() == 0 {
		return nil, eris.New("railway: empty sse stream")
	}
	return data.Bytes(), nil
}
