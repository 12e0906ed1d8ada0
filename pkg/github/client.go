// Package github provides a minimal client for the GitHub REST API: creating
// repositories and committing files through the Contents endpoint.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the GitHub REST API.
const defaultBaseURL = "https://api.github.com"

// Client defines the GitHub operations used by the pipeline.
type Client interface {
	CreateRepo(ctx context.Context, req CreateRepoRequest) (*Repo, error)
	PutFile(ctx context.Context, owner, repo, path string, req PutFileRequest) (*ContentResponse, error)
}

// CreateRepoRequest is the body for POST /user/repos.
type CreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

// Repo is the subset of the repository object the pipeline consumes.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
	Owner    Owner  `json:"owner"`
}

// Owner identifies the repository owner.
type Owner struct {
	Login string `json:"login"`
}

// PutFileRequest creates or updates a file via the Contents API. Content is
// plain text; the client base64-encodes it on the wire.
type PutFileRequest struct {
	Message string
	Content string
	Branch  string
}

// ContentResponse is the response from a Contents API write.
type ContentResponse struct {
	Content struct {
		Path string `json:"path"`
		SHA  string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// APIError is returned when GitHub responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Body)
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a new GitHub client with the given personal access token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
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

func (c *httpClient) CreateRepo(ctx context.Context, req CreateRepoRequest) (*Repo, error) {
	var repo Repo
	if err := c.send(ctx, http.MethodPost, "/user/repos", req, &repo); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("github: create repo %s", req.Name))
	}
	return &repo, nil
}

func (c *httpClient) PutFile(ctx context.Context, owner, repo, path string, req PutFileRequest) (*ContentResponse, error) {
	body := map[string]string{
		"message": req.Message,
		"content": base64.StdEncoding.EncodeToString([]byte(req.Content)),
	}
	if req.Branch != "" {
		body["branch"] = req.Branch
	}

	var resp ContentResponse
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	if err := c.send(ctx, http.MethodPut, endpoint, body, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("github: put %s", path))
	}
	return &resp, nil
}

func (c *httpClient) send(ctx context.Context, method, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Content-Type", "application/json")

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
