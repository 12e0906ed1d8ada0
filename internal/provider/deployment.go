package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/railway"
)

// railwayDeployer deploys a provisioned demo repository through the Railway
// MCP server: create a project, pick its production environment, create a
// service from the GitHub repo, then attach a public domain.
type railwayDeployer struct {
	mcp railway.Client
}

// NewRailwayDeployer creates a DeploymentProvider backed by the Railway MCP
// server. A nil client produces an unconfigured provider that always reports
// unavailable. The returned provider implements Connector: the MCP session is
// established once per batch.
func NewRailwayDeployer(mcp railway.Client) DeploymentProvider {
	return &railwayDeployer{mcp: mcp}
}

func (d *railwayDeployer) Name() string { return "railway" }

func (d *railwayDeployer) Connect(ctx context.Context) error {
	if d.mcp == nil {
		return nil
	}
	return d.mcp.Connect(ctx)
}

func (d *railwayDeployer) Close() error {
	if d.mcp == nil {
		return nil
	}
	return d.mcp.Close()
}

func (d *railwayDeployer) Deploy(ctx context.Context, practice *model.PracticeData, repo *model.RepoRef) (*model.DeployRef, error) {
	if d.mcp == nil {
		return nil, Unavailable(d.Name(), "no mcp server configured")
	}
	if !d.mcp.Connected() {
		return nil, Unavailable(d.Name(), "mcp session not established")
	}
	if repo == nil {
		return nil, Unavailable(d.Name(), "no repository to deploy")
	}

	projectName := practice.PracticeID() + "-demo"

	text, err := d.mcp.CallTool(ctx, "project_create", map[string]any{"name": projectName})
	if err != nil {
		return nil, WrapCall(d.Name(), err)
	}
	projectID := railway.ExtractID(text)
	if projectID == "" {
		return nil, WrapCall(d.Name(), fmt.Errorf("no project id in result: %q", text))
	}

	text, err = d.mcp.CallTool(ctx, "project_environments", map[string]any{"projectId": projectID})
	if err != nil {
		return nil, WrapCall(d.Name(), err)
	}
	envID := railway.ExtractID(text)
	if envID == "" {
		return nil, WrapCall(d.Name(), errors.New("project has no environments"))
	}

	text, err = d.mcp.CallTool(ctx, "service_create_from_repo", map[string]any{
		"projectId": projectID,
		"repo":      repo.FullName,
	})
	if err != nil {
		return nil, WrapCall(d.Name(), err)
	}
	serviceID := railway.ExtractID(text)
	if serviceID == "" {
		return nil, WrapCall(d.Name(), fmt.Errorf("no service id in result: %q", text))
	}

	text, err = d.mcp.CallTool(ctx, "domain_create", map[string]any{
		"environmentId": envID,
		"serviceId":     serviceID,
	})
	if err != nil {
		return nil, WrapCall(d.Name(), err)
	}
	domain := railway.ExtractDomain(text)
	if domain == "" {
		return nil, WrapCall(d.Name(), fmt.Errorf("no domain in result: %q", text))
	}

	url := "https://" + domain
	zap.L().Info("deployed demo",
		zap.String("project", projectName),
		zap.String("url", url),
	)

	return &model.DeployRef{
		ProjectID:     projectID,
		EnvironmentID: envID,
		ServiceID:     serviceID,
		URL:           url,
	}, nil
}
