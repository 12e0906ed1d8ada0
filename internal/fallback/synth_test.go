package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePracticeName(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"www.example-clinic.co.uk", "Example Clinic Clinic"},
		{"https://www.example-clinic.co.uk", "Example Clinic Clinic"},
		{"https://smile-dental.com/about", "Smile Dental Clinic"},
		{"riverside.physio.co.uk", "Riverside Physio Clinic"},
		{"brightsmiles.com", "Brightsmiles Clinic"},
		{"www.harley-street-aesthetics.clinic", "Harley Street Aesthetics Clinic"},
		{"https://", "Clinic"},
		{"", "Clinic"},
		{"https://www.co.uk/", "Co Clinic"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePracticeName(tt.target))
		})
	}
}

func TestSynthesizePracticeDeterministic(t *testing.T) {
	profiles := DefaultProfiles()

	a := SynthesizePractice("www.example-clinic.co.uk", profiles)
	b := SynthesizePractice("www.example-clinic.co.uk", profiles)
	assert.Equal(t, a, b)

	c := SynthesizePractice("other-practice.com", profiles)
	assert.NotEqual(t, a.Company, c.Company)
}

func TestSynthesizePracticeFields(t *testing.T) {
	p := SynthesizePractice("www.example-clinic.co.uk", DefaultProfiles())

	assert.Equal(t, "Example Clinic Clinic", p.Company)
	assert.Equal(t, "info@example-clinic.co.uk", p.Email)
	assert.Equal(t, "https://www.example-clinic.co.uk", p.Website)
	assert.NotEmpty(t, p.Doctor)
	assert.NotEmpty(t, p.Phone)
	assert.NotEmpty(t, p.Location)
	assert.NotEmpty(t, p.Services)
}

func TestSynthesizedScoreRange(t *testing.T) {
	profiles := DefaultProfiles()
	targets := []string{
		"a.com", "b.com", "c.com", "d.com", "e.com",
		"f.co.uk", "g.co.uk", "h.nl", "i.de", "j.clinic",
	}
	for _, target := range targets {
		p := SynthesizePractice(target, profiles)
		require.GreaterOrEqual(t, p.LeadScore, 70, "target %s", target)
		require.LessOrEqual(t, p.LeadScore, 99, "target %s", target)
	}
}

func TestSynthesizeRefs(t *testing.T) {
	p := SynthesizePractice("www.example-clinic.co.uk", DefaultProfiles())
	require.Equal(t, "exampleclinicclinic", p.PracticeID())

	storage := SynthesizeStorage(p)
	assert.Equal(t, "fallback", storage.Provider)
	assert.Equal(t, "local-exampleclinicclinic", storage.ID)

	voice := SynthesizeVoice(p)
	assert.Equal(t, "fallback", voice.Provider)
	assert.Equal(t, "demo-exampleclinicclinic-agent", voice.AgentID)

	repo := SynthesizeRepo(p, "jomarcello")
	assert.Equal(t, "exampleclinicclinic-demo", repo.Name)
	assert.Equal(t, "jomarcello/exampleclinicclinic-demo", repo.FullName)
	assert.Equal(t, "https://github.com/jomarcello/exampleclinicclinic-demo", repo.URL)

	deploy := SynthesizeDeploy(p)
	assert.Equal(t, "https://exampleclinicclinic-demo.up.railway.app", deploy.URL)
}

func TestSynthesizeRepoDefaultOwner(t *testing.T) {
	p := SynthesizePractice("x.com", DefaultProfiles())
	repo := SynthesizeRepo(p, "")
	assert.Contains(t, repo.FullName, "demo/")
}
