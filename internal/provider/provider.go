// Package provider defines the gateway interfaces over the external services
// the pipeline calls, one per capability. Every implementation normalizes
// failures to either *UnavailableError (no session / not configured) or
// *CallError (the call was attempted and failed), so callers can distinguish
// recoverable provider outages from internal faults.
package provider

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DiscoveryProvider scrapes a practice website into identity fields.
type DiscoveryProvider interface {
	Name() string
	Discover(ctx context.Context, target string) (*model.PracticeData, error)
}

// StorageProvider persists a practice record in the CRM.
type StorageProvider interface {
	Name() string
	Store(ctx context.Context, practice *model.PracticeData) (*model.StorageRef, error)
}

// VoiceProvider synthesizes a voice agent for a practice.
type VoiceProvider interface {
	Name() string
	Synthesize(ctx context.Context, practice *model.PracticeData) (*model.VoiceRef, error)
}

// ProvisioningProvider creates and personalizes a demo repository.
// The voice ref may be nil when voice synthesis fell back.
type ProvisioningProvider interface {
	Name() string
	CreateAndPersonalize(ctx context.Context, practice *model.PracticeData, voice *model.VoiceRef) (*model.RepoRef, error)
}

// DeploymentProvider deploys a provisioned repository and returns the live URL.
type DeploymentProvider interface {
	Name() string
	Deploy(ctx context.Context, practice *model.PracticeData, repo *model.RepoRef) (*model.DeployRef, error)
}

// StatusUpdater is implemented by storage providers that can mark an already
// stored lead with the pipeline outcome once the demo is live.
type StatusUpdater interface {
	UpdateOutcome(ctx context.Context, ref *model.StorageRef, deploy *model.DeployRef) error
}

// Connector is implemented by providers that hold a persistent session which
// must be established before first use in a batch and released afterwards.
type Connector interface {
	Connect(ctx context.Context) error
	Close() error
}
