package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fallback"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/provider"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/store"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/elevenlabs"
	"github.com/sells-group/leadgen-cli/pkg/firecrawl"
	"github.com/sells-group/leadgen-cli/pkg/github"
	"github.com/sells-group/leadgen-cli/pkg/notion"
	"github.com/sells-group/leadgen-cli/pkg/railway"
	sfpkg "github.com/sells-group/leadgen-cli/pkg/salesforce"
)

// pipelineEnv holds the store, provider sessions, and orchestration objects
// shared by the run/batch/serve commands.
type pipelineEnv struct {
	Store        store.Store
	Sessions     *provider.Sessions
	Executor     *pipeline.Executor
	Orchestrator *pipeline.Orchestrator
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline builds clients for every configured provider, assembles the
// provider sessions and fallback resolver, and wires the executor and batch
// orchestrator. Unconfigured providers stay nil and resolve via fallback.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	sessions := &provider.Sessions{}

	if cfg.Firecrawl.Key != "" {
		fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		sessions.Discovery = provider.NewFirecrawlDiscovery(fc)
	} else {
		zap.L().Warn("firecrawl not configured, discovery will synthesize")
	}

	if cfg.Notion.Token != "" {
		notionClient := notion.NewClient(cfg.Notion.Token)
		sfClient, err := initSalesforce()
		if err != nil {
			zap.L().Warn("salesforce init failed, skipping CRM sync", zap.Error(err))
		}
		sessions.Storage = provider.NewNotionStorage(notionClient, cfg.Notion.LeadDB, sfClient)
	} else {
		zap.L().Warn("notion not configured, storage will synthesize")
	}

	if cfg.ElevenLabs.Key != "" {
		el := elevenlabs.NewClient(cfg.ElevenLabs.Key, elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL))
		var llm anthropicpkg.Client
		if cfg.Anthropic.Key != "" {
			llm = anthropicpkg.NewClient(cfg.Anthropic.Key)
		}
		sessions.Voice = provider.NewElevenLabsVoice(el, llm, cfg.Anthropic.Model, cfg.ElevenLabs.VoiceID)
	} else {
		zap.L().Warn("elevenlabs not configured, voice will synthesize")
	}

	if cfg.GitHub.Token != "" {
		gh := github.NewClient(cfg.GitHub.Token)
		sessions.Provisioning = provider.NewGitHubProvisioner(gh, cfg.GitHub.Owner)
	} else {
		zap.L().Warn("github not configured, provisioning will synthesize")
	}

	if cfg.Railway.APIKey != "" {
		mcp := railway.NewClient(cfg.Railway.BaseURL,
			railway.WithCredentials(cfg.Railway.APIKey, cfg.Railway.Profile))
		sessions.Deployment = provider.NewRailwayDeployer(mcp)
	} else {
		zap.L().Warn("railway not configured, deployment will synthesize")
	}

	profiles, err := fallback.LoadProfiles(cfg.Fallback.ProfilesPath)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load fallback profiles")
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.Pipeline.RetryAttempts > 0 {
		retry.MaxAttempts = cfg.Pipeline.RetryAttempts
	}

	resolver := fallback.NewResolver(sessions, profiles, retry, cfg.GitHub.Owner)

	exec := pipeline.NewExecutor(resolver, st,
		pipeline.WithPhaseTimeout(time.Duration(cfg.Pipeline.PhaseTimeoutMS)*time.Millisecond))

	orch := pipeline.NewOrchestrator(exec, sessions,
		pipeline.WithTargetDelay(time.Duration(cfg.Batch.DelayMS)*time.Millisecond),
		pipeline.WithMaxLeads(cfg.Batch.MaxLeads))

	return &pipelineEnv{
		Store:        st,
		Sessions:     sessions,
		Executor:     exec,
		Orchestrator: orch,
	}, nil
}

// initSalesforce authenticates the optional CRM sync via JWT. Returns a nil
// client when Salesforce is not configured.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, nil
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}
