package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/github"
)

// practiceConfigTmpl renders the demo site's practice configuration module.
var practiceConfigTmpl = template.Must(template.New("practice-config").Parse(
	`export const practiceConfig = {
  id: "{{.ID}}",
  name: "{{.Company}}",
  doctor: "{{.Doctor}}",
  phone: "{{.Phone}}",
  email: "{{.Email}}",
  location: "{{.Location}}",
  website: "{{.Website}}",
  services: [{{range $i, $s := .Services}}{{if $i}}, {{end}}"{{$s}}"{{end}}],
  voiceAgentId: "{{.AgentID}}",
};
`))

// packageJSONTmpl renders the demo repo's package manifest.
var packageJSONTmpl = template.Must(template.New("package-json").Parse(
	`{
  "name": "{{.ID}}-demo",
  "version": "1.0.0",
  "private": true,
  "description": "Healthcare demo for {{.Company}}",
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "start": "next start"
  }
}
`))

type configData struct {
	ID       string
	Company  string
	Doctor   string
	Phone    string
	Email    string
	Location string
	Website  string
	Services []string
	AgentID  string
}

// githubProvisioner creates a personalized demo repository per practice.
type githubProvisioner struct {
	gh    github.Client
	owner string
}

// NewGitHubProvisioner creates a ProvisioningProvider backed by the GitHub
// API. A nil client produces an unconfigured provider that always reports
// unavailable.
func NewGitHubProvisioner(gh github.Client, owner string) ProvisioningProvider {
	return &githubProvisioner{gh: gh, owner: owner}
}

func (p *githubProvisioner) Name() string { return "github" }

func (p *githubProvisioner) CreateAndPersonalize(ctx context.Context, practice *model.PracticeData, voice *model.VoiceRef) (*model.RepoRef, error) {
	if p.gh == nil {
		return nil, Unavailable(p.Name(), "no token configured")
	}

	repoName := practice.PracticeID() + "-demo"
	repo, err := p.gh.CreateRepo(ctx, github.CreateRepoRequest{
		Name:        repoName,
		Description: fmt.Sprintf("Healthcare demo for %s", practice.Company),
		AutoInit:    true,
	})
	if err != nil {
		return nil, WrapCall(p.Name(), markTransientGitHub(err))
	}

	owner := p.owner
	if owner == "" {
		owner = repo.Owner.Login
	}

	data := configData{
		ID:       practice.PracticeID(),
		Company:  practice.Company,
		Doctor:   practice.Doctor,
		Phone:    practice.Phone,
		Email:    practice.Email,
		Location: practice.Location,
		Website:  practice.Website,
		Services: practice.Services,
	}
	if voice != nil {
		data.AgentID = voice.AgentID
	}

	files := []struct {
		path string
		tmpl *template.Template
	}{
		{"src/lib/practice-config.ts", practiceConfigTmpl},
		{"package.json", packageJSONTmpl},
	}
	for _, f := range files {
		var buf strings.Builder
		if err := f.tmpl.Execute(&buf, data); err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("render %s", f.path))
		}
		_, err := p.gh.PutFile(ctx, owner, repoName, f.path, github.PutFileRequest{
			Message: fmt.Sprintf("Personalize demo for %s", practice.Company),
			Content: buf.String(),
			Branch:  "main",
		})
		if err != nil {
			return nil, WrapCall(p.Name(), markTransientGitHub(err))
		}
	}

	zap.L().Info("provisioned demo repository",
		zap.String("repo", repo.FullName),
		zap.String("company", practice.Company),
	)

	return &model.RepoRef{
		Name:     repo.Name,
		FullName: repo.FullName,
		URL:      repo.HTMLURL,
		CloneURL: repo.CloneURL,
	}, nil
}

func markTransientGitHub(err error) error {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
		return resilience.NewTransientError(err, apiErr.StatusCode)
	}
	return err
}
