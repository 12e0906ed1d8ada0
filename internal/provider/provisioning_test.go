package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/github"
)

func TestCreateAndPersonalize(t *testing.T) {
	gh := &fakeGitHub{
		repo: &github.Repo{
			Name:     "smiledental-demo",
			FullName: "jomarcello/smiledental-demo",
			HTMLURL:  "https://github.com/jomarcello/smiledental-demo",
			CloneURL: "https://github.com/jomarcello/smiledental-demo.git",
			Owner:    github.Owner{Login: "jomarcello"},
		},
	}
	p := NewGitHubProvisioner(gh, "jomarcello")
	voice := &model.VoiceRef{Provider: "elevenlabs", AgentID: "agent-1"}

	ref, err := p.CreateAndPersonalize(context.Background(), practiceFixture(), voice)
	require.NoError(t, err)

	assert.Equal(t, "smiledental-demo", ref.Name)
	assert.Equal(t, "jomarcello/smiledental-demo", ref.FullName)
	assert.Equal(t, "https://github.com/jomarcello/smiledental-demo", ref.URL)

	assert.Equal(t, []string{"src/lib/practice-config.ts", "package.json"}, gh.putPaths)

	cfg := gh.putBodies["src/lib/practice-config.ts"]
	assert.Contains(t, cfg, `name: "Smile Dental"`)
	assert.Contains(t, cfg, `doctor: "Dr. Sarah Chen"`)
	assert.Contains(t, cfg, `"Teeth Whitening", "Invisalign"`)
	assert.Contains(t, cfg, `voiceAgentId: "agent-1"`)

	pkg := gh.putBodies["package.json"]
	assert.Contains(t, pkg, `"name": "smiledental-demo"`)
	assert.Contains(t, pkg, "Healthcare demo for Smile Dental")
}

func TestCreateAndPersonalizeNilVoice(t *testing.T) {
	gh := &fakeGitHub{repo: &github.Repo{Name: "smiledental-demo", Owner: github.Owner{Login: "jomarcello"}}}
	p := NewGitHubProvisioner(gh, "")

	_, err := p.CreateAndPersonalize(context.Background(), practiceFixture(), nil)
	require.NoError(t, err)

	assert.Contains(t, gh.putBodies["src/lib/practice-config.ts"], `voiceAgentId: ""`)
}

func TestCreateAndPersonalizeNilClientUnavailable(t *testing.T) {
	p := NewGitHubProvisioner(nil, "")

	_, err := p.CreateAndPersonalize(context.Background(), practiceFixture(), nil)
	require.Error(t, err)

	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "github", ue.Provider)
}

func TestCreateAndPersonalizeAPIErrorIsRecoverable(t *testing.T) {
	gh := &fakeGitHub{repoErr: &github.APIError{StatusCode: 422, Body: "name exists"}}
	p := NewGitHubProvisioner(gh, "jomarcello")

	_, err := p.CreateAndPersonalize(context.Background(), practiceFixture(), nil)
	require.Error(t, err)
	assert.True(t, IsRecoverable(err))
}
