package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/provider"
)

// DefaultTargetDelay is the pause between consecutive targets in a batch,
// keeping free-tier provider rate limits comfortable.
const DefaultTargetDelay = 3 * time.Second

// Orchestrator runs targets strictly one after another, bracketing the batch
// with provider session setup and teardown. The sessions belong to one batch
// at a time, so overlapping RunBatch calls queue.
type Orchestrator struct {
	executor *Executor
	sessions *provider.Sessions
	delay    time.Duration
	maxLeads int
	sleep    func(ctx context.Context, d time.Duration) error

	mu sync.Mutex
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTargetDelay overrides the inter-target delay.
func WithTargetDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.delay = d
	}
}

// WithMaxLeads caps how many targets one batch may process. Zero means no cap.
func WithMaxLeads(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.maxLeads = n
	}
}

// withSleep substitutes the delay function (tests).
func withSleep(fn func(ctx context.Context, d time.Duration) error) OrchestratorOption {
	return func(o *Orchestrator) {
		o.sleep = fn
	}
}

// NewOrchestrator creates an Orchestrator over the given executor and
// provider sessions.
func NewOrchestrator(exec *Executor, sessions *provider.Sessions, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		executor: exec,
		sessions: sessions,
		delay:    DefaultTargetDelay,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunBatch processes up to count targets in order. count <= 0 means all
// targets; the configured max-leads cap applies either way. Sessions are
// connected once before the first target and always released afterwards, even
// when a run panics. Between consecutive targets the orchestrator pauses for
// the configured delay, so N targets incur N-1 pauses. Concurrent calls are
// serialized: a batch holds the sessions for its whole lifetime, so another
// batch finishing can never tear them down underneath it.
func (o *Orchestrator) RunBatch(ctx context.Context, targets []string, count int) (summary *model.BatchSummary, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if count > 0 && count < len(targets) {
		targets = targets[:count]
	}
	if o.maxLeads > 0 && o.maxLeads < len(targets) {
		zap.L().Warn("batch truncated to max leads",
			zap.Int("requested", len(targets)),
			zap.Int("max", o.maxLeads),
		)
		targets = targets[:o.maxLeads]
	}

	summary = &model.BatchSummary{}
	if len(targets) == 0 {
		return summary, nil
	}

	// Individual target failures never fail a batch; only session
	// setup/teardown faults reach the caller.
	if err := o.sessions.Connect(ctx); err != nil {
		_ = o.sessions.Close()
		return nil, err
	}
	defer func() {
		if cerr := o.sessions.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	zap.L().Info("batch started",
		zap.Int("targets", len(targets)),
		zap.Duration("delay", o.delay),
	)

	for i, target := range targets {
		rec := o.executor.Run(ctx, target)
		summary.Leads = append(summary.Leads, *rec)
		if rec.Status == model.LeadStatusSuccess {
			summary.Successful++
		} else {
			summary.Failed++
		}

		if i < len(targets)-1 {
			if err := o.sleep(ctx, o.delay); err != nil {
				return summary, err
			}
		}
	}

	zap.L().Info("batch complete",
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// sleepContext pauses for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
