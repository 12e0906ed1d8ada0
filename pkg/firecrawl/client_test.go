package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ScrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://www.example-clinic.com", req.URL)

		json.NewEncoder(w).Encode(ScrapeResponse{
			Success: true,
			Data: PageData{
				URL:        "https://www.example-clinic.com",
				Markdown:   "# Example Clinic\n\nCall us on +44 20 1234 5678",
				Title:      "Example Clinic - Home",
				StatusCode: 200,
				Metadata:   PageMetadata{OGSiteName: "Example Clinic"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))

	resp, err := c.Scrape(context.Background(), ScrapeRequest{
		URL:     "https://www.example-clinic.com",
		Formats: []string{"markdown", "html"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Example Clinic", resp.Data.Metadata.OGSiteName)
	assert.Contains(t, resp.Data.Markdown, "Example Clinic")
}

func TestScrape_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"payment required"}`, http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
