// Package model defines the core data types shared across the demo pipeline.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provenance indicates whether a phase result came from a real external
// provider or was synthesized by the fallback resolver.
type Provenance string

const (
	ProvenanceReal     Provenance = "real-provider"
	ProvenanceFallback Provenance = "fallback"
)

// LeadStatus is the terminal state of a pipeline run for one target.
type LeadStatus string

const (
	LeadStatusSuccess LeadStatus = "success"
	LeadStatusFailed  LeadStatus = "failed"
)

// Phase names, in execution order.
const (
	PhaseDiscover  = "discover"
	PhaseStore     = "store"
	PhaseVoice     = "synthesize-voice"
	PhaseProvision = "provision"
	PhaseDeploy    = "deploy"
)

// PhaseNames lists the five pipeline phases in their fixed order.
var PhaseNames = []string{PhaseDiscover, PhaseStore, PhaseVoice, PhaseProvision, PhaseDeploy}

// PhaseResult is the outcome of a single phase invocation.
type PhaseResult struct {
	Name       string     `json:"name"`
	Provenance Provenance `json:"provenance"`
	Ref        string     `json:"ref,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// PracticeData holds the identity fields discovered (or synthesized) for a
// healthcare practice.
type PracticeData struct {
	Company   string   `json:"company"`
	Doctor    string   `json:"doctor"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Location  string   `json:"location"`
	Services  []string `json:"services,omitempty"`
	Website   string   `json:"website"`
	LeadScore int      `json:"lead_score"`
}

// PracticeID returns the slug used for repo, project, and agent names:
// the company name lowercased with spaces and dots removed.
func (p *PracticeData) PracticeID() string {
	id := strings.ToLower(p.Company)
	id = strings.ReplaceAll(id, " ", "")
	id = strings.ReplaceAll(id, ".", "")
	return id
}

// StorageRef identifies the CRM record created for a lead.
type StorageRef struct {
	Provider     string `json:"provider"`
	ID           string `json:"id"`
	URL          string `json:"url,omitempty"`
	SalesforceID string `json:"salesforce_id,omitempty"`
}

// VoiceRef identifies the synthesized voice agent.
type VoiceRef struct {
	Provider string `json:"provider"`
	AgentID  string `json:"agent_id"`
	VoiceID  string `json:"voice_id,omitempty"`
}

// RepoRef identifies the provisioned demo repository.
type RepoRef struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	URL      string `json:"url"`
	CloneURL string `json:"clone_url,omitempty"`
}

// DeployRef identifies the live deployment of a demo repository.
type DeployRef struct {
	ProjectID     string `json:"project_id"`
	EnvironmentID string `json:"environment_id,omitempty"`
	ServiceID     string `json:"service_id,omitempty"`
	URL           string `json:"url"`
}

// LeadRecord is the accumulated result of one pipeline run for one target.
// It is created open, mutated additively as phases complete, and frozen once
// Status is set.
type LeadRecord struct {
	ID       string       `json:"id"`
	Target   string       `json:"target"`
	Practice PracticeData `json:"practice"`

	CRM    *StorageRef `json:"crm,omitempty"`
	Voice  *VoiceRef   `json:"voice,omitempty"`
	Repo   *RepoRef    `json:"repo,omitempty"`
	Deploy *DeployRef  `json:"deploy,omitempty"`

	Phases []PhaseResult `json:"phases"`

	Status      LeadStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	Degraded    bool       `json:"degraded"`
	DurationMS  int64      `json:"duration_ms"`
	CompletedAt time.Time  `json:"completed_at"`
}

// NewLeadRecord creates an open record for the given target.
func NewLeadRecord(target string) *LeadRecord {
	return &LeadRecord{
		ID:     uuid.NewString(),
		Target: target,
	}
}

// AddPhase appends a phase result and updates the degraded flag.
func (r *LeadRecord) AddPhase(pr PhaseResult) {
	r.Phases = append(r.Phases, pr)
	if pr.Provenance == ProvenanceFallback {
		r.Degraded = true
	}
}

// Complete finalizes the record as successful.
func (r *LeadRecord) Complete(elapsed time.Duration) {
	r.Status = LeadStatusSuccess
	r.DurationMS = elapsed.Milliseconds()
	r.CompletedAt = time.Now().UTC()
}

// Fail finalizes the record with an error message.
func (r *LeadRecord) Fail(msg string, elapsed time.Duration) {
	r.Status = LeadStatusFailed
	r.Error = msg
	r.DurationMS = elapsed.Milliseconds()
	r.CompletedAt = time.Now().UTC()
}

// BatchSummary aggregates the lead records produced by one batch invocation.
type BatchSummary struct {
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Leads      []LeadRecord `json:"leads"`
}
