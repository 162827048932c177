package lars

import (
	"context"
	"sync"
	"time"
)

// Supervisor runs bulk lifecycle operations over the registry concurrently,
// with configurable concurrency and per-operation timeouts.
type Supervisor struct {
	// Store is the registry the supervisor operates on
	Store *Store
	// Concurrency is the maximum number of concurrent operations
	Concurrency int
	// Timeout is the per-operation timeout
	Timeout time.Duration

	// runnerFor resolves a backend for a kind; overridable in tests
	runnerFor func(RunnerKind) (Runner, error)
}

// SupervisorOption configures a Supervisor
type SupervisorOption func(*Supervisor)

// WithConcurrency sets the maximum number of concurrent operations
func WithConcurrency(n int) SupervisorOption {
	return func(s *Supervisor) {
		s.Concurrency = n
	}
}

// WithTimeout sets the per-operation timeout
func WithTimeout(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.Timeout = d
	}
}

// NewSupervisor creates a Supervisor over the given store
func NewSupervisor(store *Store, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		Store:       store,
		Concurrency: 4,
		Timeout:     30 * time.Second,
		runnerFor:   NewRunner,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.Concurrency < 1 {
		s.Concurrency = 1
	}

	return s
}

func (s *Supervisor) execute(ctx context.Context, services []Service, op func(context.Context, Runner, *Service) error) error {
	if len(services) == 0 {
		return nil
	}

	sem := make(chan struct{}, s.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merr := &MultiError{}

	for i := range services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			runner, err := s.runnerFor(svc.Runner)
			if err != nil {
				mu.Lock()
				merr.Add(&OpError{Op: OpUnknown, Name: svc.Name, Err: err})
				mu.Unlock()
				return
			}

			opCtx := ctx
			if s.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, s.Timeout)
				defer cancel()
			}

			if err := op(opCtx, runner, &svc); err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
			}
		}(services[i])
	}

	wg.Wait()

	return merr.Err()
}

// StartEnabled starts every enabled service. Already-running services are
// left alone. Failures are collected per service; one broken service does
// not block the rest.
func (s *Supervisor) StartEnabled(ctx context.Context) error {
	reg, err := s.Store.Load()
	if err != nil {
		return err
	}
	if err := s.Store.EnsureDirs(); err != nil {
		return err
	}

	var enabled []Service
	for _, svc := range reg.Services {
		if svc.Enabled {
			enabled = append(enabled, svc)
		}
	}

	return s.execute(ctx, enabled, func(ctx context.Context, r Runner, svc *Service) error {
		running, err := r.IsRunning(ctx, svc)
		if err != nil {
			return err
		}
		if running {
			return nil
		}
		return r.Start(ctx, svc, s.Store.LogPath(svc.ID))
	})
}

// StartAutostart starts every service flagged for automatic startup
func (s *Supervisor) StartAutostart(ctx context.Context) error {
	reg, err := s.Store.Load()
	if err != nil {
		return err
	}
	if err := s.Store.EnsureDirs(); err != nil {
		return err
	}

	var marked []Service
	for _, svc := range reg.Services {
		if svc.Enabled && svc.Autostart {
			marked = append(marked, svc)
		}
	}

	return s.execute(ctx, marked, func(ctx context.Context, r Runner, svc *Service) error {
		running, err := r.IsRunning(ctx, svc)
		if err != nil {
			return err
		}
		if running {
			return nil
		}
		return r.Start(ctx, svc, s.Store.LogPath(svc.ID))
	})
}

// StopAll stops every running service. Services whose backend is not
// installed are skipped; they cannot be running.
func (s *Supervisor) StopAll(ctx context.Context) error {
	reg, err := s.Store.Load()
	if err != nil {
		return err
	}

	// A missing backend means nothing of ours is running under it
	var stoppable []Service
	for _, svc := range reg.Services {
		if _, err := s.runnerFor(svc.Runner); err != nil {
			continue
		}
		stoppable = append(stoppable, svc)
	}

	return s.execute(ctx, stoppable, func(ctx context.Context, r Runner, svc *Service) error {
		running, err := r.IsRunning(ctx, svc)
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
		return r.Stop(ctx, svc)
	})
}

// Shutdown applies the configured shutdown behavior: stop everything, or
// leave sessions running for the next invocation to find.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	reg, err := s.Store.Load()
	if err != nil {
		return err
	}

	if reg.Settings.ShutdownBehavior == ShutdownLeaveRunning {
		return nil
	}
	return s.StopAll(ctx)
}

// Statuses reports the derived running state for every registered service,
// keyed by name. Services whose backend is unavailable report not running.
func (s *Supervisor) Statuses(ctx context.Context) (map[string]bool, error) {
	reg, err := s.Store.Load()
	if err != nil {
		return nil, err
	}

	sem := make(chan struct{}, s.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]bool)
	merr := &MultiError{}

	for i := range reg.Services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			runner, err := s.runnerFor(svc.Runner)
			if err != nil {
				mu.Lock()
				results[svc.Name] = false
				mu.Unlock()
				return
			}

			opCtx := ctx
			if s.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, s.Timeout)
				defer cancel()
			}

			running, err := runner.IsRunning(opCtx, &svc)
			if err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
				return
			}

			mu.Lock()
			results[svc.Name] = running
			mu.Unlock()
		}(reg.Services[i])
	}

	wg.Wait()

	return results, merr.Err()
}
