// Package pipeline runs the five-phase demo generation sequence for one
// target and orchestrates sequential batches over many targets.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fallback"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Executor runs the full phase sequence for a single target. Every run
// produces a LeadRecord; provider failures degrade to fallback data and only
// internal faults (including panics) mark the record failed.
type Executor struct {
	resolver     *fallback.Resolver
	store        store.Store
	phaseTimeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPhaseTimeout bounds each phase's provider calls. Zero disables the
// per-phase deadline.
func WithPhaseTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.phaseTimeout = d
	}
}

// NewExecutor creates an Executor. st may be nil to skip lead persistence.
func NewExecutor(resolver *fallback.Resolver, st store.Store, opts ...ExecutorOption) *Executor {
	e := &Executor{resolver: resolver, store: st}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes all five phases for one target. The returned record is never
// nil: a panic anywhere in the sequence is captured as a failed record.
func (e *Executor) Run(ctx context.Context, target string) (rec *model.LeadRecord) {
	start := time.Now()
	rec = model.NewLeadRecord(target)

	log := zap.L().With(zap.String("target", target), zap.String("lead_id", rec.ID))
	log.Info("pipeline started")

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", zap.Any("panic", r))
			rec.Fail(fmt.Sprintf("pipeline panic: %v", r), time.Since(start))
		}
		e.save(ctx, rec)
	}()

	// trackPhase times one phase and appends its result; a returned fault
	// fails the whole record.
	trackPhase := func(fn func(ctx context.Context) (model.PhaseResult, error)) error {
		phaseCtx := ctx
		if e.phaseTimeout > 0 {
			var cancel context.CancelFunc
			phaseCtx, cancel = context.WithTimeout(ctx, e.phaseTimeout)
			defer cancel()
		}

		phaseStart := time.Now()
		res, err := fn(phaseCtx)
		res.DurationMS = time.Since(phaseStart).Milliseconds()
		if err != nil {
			res.Error = err.Error()
			rec.AddPhase(res)
			return err
		}
		rec.AddPhase(res)
		log.Debug("phase complete",
			zap.String("phase", res.Name),
			zap.String("provenance", string(res.Provenance)),
			zap.String("ref", res.Ref),
			zap.Int64("duration_ms", res.DurationMS),
		)
		return nil
	}

	err := trackPhase(func(ctx context.Context) (model.PhaseResult, error) {
		practice, res, err := e.resolver.Discover(ctx, target)
		if err == nil {
			rec.Practice = *practice
		}
		return res, err
	})
	if err != nil {
		rec.Fail(err.Error(), time.Since(start))
		return rec
	}

	err = trackPhase(func(ctx context.Context) (model.PhaseResult, error) {
		ref, res, err := e.resolver.Store(ctx, &rec.Practice)
		if err == nil {
			rec.CRM = ref
		}
		return res, err
	})
	if err != nil {
		rec.Fail(err.Error(), time.Since(start))
		return rec
	}

	err = trackPhase(func(ctx context.Context) (model.PhaseResult, error) {
		ref, res, err := e.resolver.Voice(ctx, &rec.Practice)
		if err == nil {
			rec.Voice = ref
		}
		return res, err
	})
	if err != nil {
		rec.Fail(err.Error(), time.Since(start))
		return rec
	}

	err = trackPhase(func(ctx context.Context) (model.PhaseResult, error) {
		ref, res, err := e.resolver.Provision(ctx, &rec.Practice, rec.Voice)
		if err == nil {
			rec.Repo = ref
		}
		return res, err
	})
	if err != nil {
		rec.Fail(err.Error(), time.Since(start))
		return rec
	}

	err = trackPhase(func(ctx context.Context) (model.PhaseResult, error) {
		ref, res, err := e.resolver.Deploy(ctx, &rec.Practice, rec.Repo)
		if err == nil {
			rec.Deploy = ref
		}
		return res, err
	})
	if err != nil {
		rec.Fail(err.Error(), time.Since(start))
		return rec
	}

	rec.Complete(time.Since(start))
	e.resolver.Finalize(ctx, rec)
	log.Info("pipeline complete",
		zap.String("company", rec.Practice.Company),
		zap.Bool("degraded", rec.Degraded),
		zap.Int64("duration_ms", rec.DurationMS),
	)
	return rec
}

// save persists the record. Persistence failures never fail a run.
func (e *Executor) save(ctx context.Context, rec *model.LeadRecord) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveLead(ctx, rec); err != nil {
		zap.L().Warn("failed to save lead record",
			zap.String("lead_id", rec.ID),
			zap.Error(err),
		)
	}
}
