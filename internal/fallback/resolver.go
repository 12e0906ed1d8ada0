package fallback

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/provider"
	"github.com/sells-group/leadgen-cli/internal/resilience"
)

// Resolver runs each phase against its real provider first and absorbs
// provider failures by synthesizing a stand-in result. Transient failures are
// retried before falling back; only internal faults (bugs, bad templates)
// surface as errors.
type Resolver struct {
	sessions  *provider.Sessions
	profiles  *Profiles
	retry     resilience.RetryConfig
	repoOwner string
}

// NewResolver creates a Resolver over the given provider sessions. repoOwner
// names the GitHub account used for synthesized repo references.
func NewResolver(sessions *provider.Sessions, profiles *Profiles, retry resilience.RetryConfig, repoOwner string) *Resolver {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Resolver{
		sessions:  sessions,
		profiles:  profiles,
		retry:     retry,
		repoOwner: repoOwner,
	}
}

// attempt runs fn with retry on transient errors, logging each retry.
func attempt[T any](ctx context.Context, cfg resilience.RetryConfig, providerName, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg.OnRetry = resilience.RetryLogger(providerName, operation)
	return resilience.DoVal(ctx, cfg, fn)
}

// absorb decides what to do with a phase error: recoverable errors are logged
// and absorbed (the caller synthesizes), anything else propagates.
func absorb(phase string, err error) (fellBack bool, fault error) {
	if err == nil {
		return false, nil
	}
	if provider.IsRecoverable(err) {
		zap.L().Warn("provider failed, synthesizing fallback",
			zap.String("phase", phase),
			zap.Error(err),
		)
		return true, nil
	}
	return false, err
}

// Finalize pushes the pipeline outcome back onto the CRM record, marking the
// lead live with its demo URL. Best-effort: a synthesized CRM record has
// nothing to update, and a failed update only warns.
func (r *Resolver) Finalize(ctx context.Context, rec *model.LeadRecord) {
	if rec.CRM == nil || rec.CRM.Provider == "fallback" {
		return
	}
	updater, ok := r.sessions.Storage.(provider.StatusUpdater)
	if !ok {
		return
	}
	if err := updater.UpdateOutcome(ctx, rec.CRM, rec.Deploy); err != nil {
		zap.L().Warn("crm outcome update failed",
			zap.String("crm_id", rec.CRM.ID),
			zap.Error(err),
		)
	}
}

// Discover resolves the discover phase for a target.
func (r *Resolver) Discover(ctx context.Context, target string) (*model.PracticeData, model.PhaseResult, error) {
	res := model.PhaseResult{Name: model.PhaseDiscover}

	var practice *model.PracticeData
	var err error
	if r.sessions.Discovery == nil {
		err = provider.Unavailable("discovery", "not configured")
	} else {
		practice, err = attempt(ctx, r.retry, r.sessions.Discovery.Name(), model.PhaseDiscover,
			func(ctx context.Context) (*model.PracticeData, error) {
				return r.sessions.Discovery.Discover(ctx, target)
			})
	}

	fellBack, fault := absorb(model.PhaseDiscover, err)
	if fault != nil {
		return nil, res, fault
	}
	if fellBack {
		practice = SynthesizePractice(target, r.profiles)
		res.Provenance = model.ProvenanceFallback
		res.Error = err.Error()
	} else {
		res.Provenance = model.ProvenanceReal
	}
	res.Ref = practice.Company
	return practice, res, nil
}

// Store resolves the store phase for a practice.
func (r *Resolver) Store(ctx context.Context, practice *model.PracticeData) (*model.StorageRef, model.PhaseResult, error) {
	res := model.PhaseResult{Name: model.PhaseStore}

	var ref *model.StorageRef
	var err error
	if r.sessions.Storage == nil {
		err = provider.Unavailable("storage", "not configured")
	} else {
		ref, err = attempt(ctx, r.retry, r.sessions.Storage.Name(), model.PhaseStore,
			func(ctx context.Context) (*model.StorageRef, error) {
				return r.sessions.Storage.Store(ctx, practice)
			})
	}

	fellBack, fault := absorb(model.PhaseStore, err)
	if fault != nil {
		return nil, res, fault
	}
	if fellBack {
		ref = SynthesizeStorage(practice)
		res.Provenance = model.ProvenanceFallback
		res.Error = err.Error()
	} else {
		res.Provenance = model.ProvenanceReal
	}
	res.Ref = ref.ID
	return ref, res, nil
}

// Voice resolves the synthesize-voice phase for a practice.
func (r *Resolver) Voice(ctx context.Context, practice *model.PracticeData) (*model.VoiceRef, model.PhaseResult, error) {
	res := model.PhaseResult{Name: model.PhaseVoice}

	var ref *model.VoiceRef
	var err error
	if r.sessions.Voice == nil {
		err = provider.Unavailable("voice", "not configured")
	} else {
		ref, err = attempt(ctx, r.retry, r.sessions.Voice.Name(), model.PhaseVoice,
			func(ctx context.Context) (*model.VoiceRef, error) {
				return r.sessions.Voice.Synthesize(ctx, practice)
			})
	}

	fellBack, fault := absorb(model.PhaseVoice, err)
	if fault != nil {
		return nil, res, fault
	}
	if fellBack {
		ref = SynthesizeVoice(practice)
		res.Provenance = model.ProvenanceFallback
		res.Error = err.Error()
	} else {
		res.Provenance = model.ProvenanceReal
	}
	res.Ref = ref.AgentID
	return ref, res, nil
}

// Provision resolves the provision phase for a practice.
func (r *Resolver) Provision(ctx context.Context, practice *model.PracticeData, voice *model.VoiceRef) (*model.RepoRef, model.PhaseResult, error) {
	res := model.PhaseResult{Name: model.PhaseProvision}

	var ref *model.RepoRef
	var err error
	if r.sessions.Provisioning == nil {
		err = provider.Unavailable("provisioning", "not configured")
	} else {
		ref, err = attempt(ctx, r.retry, r.sessions.Provisioning.Name(), model.PhaseProvision,
			func(ctx context.Context) (*model.RepoRef, error) {
				return r.sessions.Provisioning.CreateAndPersonalize(ctx, practice, voice)
			})
	}

	fellBack, fault := absorb(model.PhaseProvision, err)
	if fault != nil {
		return nil, res, fault
	}
	if fellBack {
		ref = SynthesizeRepo(practice, r.repoOwner)
		res.Provenance = model.ProvenanceFallback
		res.Error = err.Error()
	} else {
		res.Provenance = model.ProvenanceReal
	}
	res.Ref = ref.FullName
	return ref, res, nil
}

// Deploy resolves the deploy phase for a provisioned repository.
func (r *Resolver) Deploy(ctx context.Context, practice *model.PracticeData, repo *model.RepoRef) (*model.DeployRef, model.PhaseResult, error) {
	res := model.PhaseResult{Name: model.PhaseDeploy}

	var ref *model.DeployRef
	var err error
	if r.sessions.Deployment == nil {
		err = provider.Unavailable("deployment", "not configured")
	} else {
		ref, err = attempt(ctx, r.retry, r.sessions.Deployment.Name(), model.PhaseDeploy,
			func(ctx context.Context) (*model.DeployRef, error) {
				return r.sessions.Deployment.Deploy(ctx, practice, repo)
			})
	}

	fellBack, fault := absorb(model.PhaseDeploy, err)
	if fault != nil {
		return nil, res, fault
	}
	if fellBack {
		ref = SynthesizeDeploy(practice)
		res.Provenance = model.ProvenanceFallback
		res.Error = err.Error()
	} else {
		res.Provenance = model.ProvenanceReal
	}
	res.Ref = ref.URL
	return ref, res, nil
}
