package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/convai/agents/create", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		var req CreateAgentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "exampleclinicclinic-agent", req.Name)
		assert.Contains(t, req.ConversationConfig.Agent.Prompt.Prompt, "Example Clinic Clinic")

		json.NewEncoder(w).Encode(CreateAgentResponse{AgentID: "agent-abc123"})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := c.CreateAgent(context.Background(), CreateAgentRequest{
		Name: "exampleclinicclinic-agent",
		ConversationConfig: ConversationConfig{
			Agent: AgentConfig{
				Prompt:       PromptConfig{Prompt: "You are the receptionist for Example Clinic Clinic."},
				FirstMessage: "Thank you for calling Example Clinic Clinic.",
				Language:     "en",
			},
			TTS: &TTSConfig{VoiceID: "voice-1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-abc123", resp.AgentID)
}

func TestCreateAgent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))

	_, err := c.CreateAgent(context.Background(), CreateAgentRequest{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
