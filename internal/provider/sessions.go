package provider

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sessions holds the provider handles for the lifetime of one batch. Any
// handle may be nil; the fallback resolver treats a nil handle as an
// unavailable provider. Sessions is constructed once at batch start and
// released unconditionally at batch end.
type Sessions struct {
	Discovery    DiscoveryProvider
	Storage      StorageProvider
	Voice        VoiceProvider
	Provisioning ProvisioningProvider
	Deployment   DeploymentProvider

	mu        sync.Mutex
	connected bool
}

// Connect establishes persistent sessions for every provider that needs one.
// Providers without a session requirement are skipped. Safe to call once per
// batch; a failed Connect leaves already-opened sessions to be released by
// Close.
func (s *Sessions) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range s.connectors() {
		g.Go(func() error {
			return c.Connect(gCtx)
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "sessions: connect")
	}

	s.connected = true
	return nil
}

// Close releases every provider session. It always attempts all of them and
// never panics, so it is safe to defer even when Connect failed.
func (s *Sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, c := range s.connectors() {
		if err := c.Close(); err != nil {
			zap.L().Warn("sessions: close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.connected = false
	if firstErr != nil {
		return eris.Wrap(firstErr, "sessions: close")
	}
	return nil
}

func (s *Sessions) connectors() []Connector {
	var out []Connector
	for _, p := range []any{s.Discovery, s.Storage, s.Voice, s.Provisioning, s.Deployment} {
		if c, ok := p.(Connector); ok && c != nil {
			out = append(out, c)
		}
	}
	return out
}
