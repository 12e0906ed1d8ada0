package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "token tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

		var req CreateRepoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "exampleclinicclinic-demo", req.Name)
		assert.True(t, req.AutoInit)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Repo{
			Name:     req.Name,
			FullName: "jomarcello/" + req.Name,
			HTMLURL:  "https://github.com/jomarcello/" + req.Name,
			CloneURL: "https://github.com/jomarcello/" + req.Name + ".git",
			Owner:    Owner{Login: "jomarcello"},
		})
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))

	repo, err := c.CreateRepo(context.Background(), CreateRepoRequest{
		Name:        "exampleclinicclinic-demo",
		Description: "Healthcare demo for Example Clinic Clinic",
		AutoInit:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "jomarcello/exampleclinicclinic-demo", repo.FullName)
	assert.Equal(t, "jomarcello", repo.Owner.Login)
}

func TestPutFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/jomarcello/demo/contents/src/lib/practice-config.ts", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		decoded, err := base64.StdEncoding.DecodeString(body["content"])
		require.NoError(t, err)
		assert.Contains(t, string(decoded), "practiceConfig")
		assert.Equal(t, "main", body["branch"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"content":{"path":"src/lib/practice-config.ts","sha":"abc"},"commit":{"sha":"def"}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))

	resp, err := c.PutFile(context.Background(), "jomarcello", "demo", "src/lib/practice-config.ts", PutFileRequest{
		Message: "Personalized demo config",
		Content: "export const practiceConfig = {};",
		Branch:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Content.SHA)
	assert.Equal(t, "def", resp.Commit.SHA)
}

func TestCreateRepo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Repository creation failed."}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))

	_, err := c.CreateRepo(context.Background(), CreateRepoRequest{Name: "dupe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
