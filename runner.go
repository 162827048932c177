package lars

import (
	"context"
	"time"
)

// Runner is the capability set a session backend implements. A service's
// running state is never persisted; it is derived on demand through
// IsRunning. Start and Stop are idempotent: starting a running service or
// stopping a stopped one succeeds without touching the backend's state.
type Runner interface {
	// Start launches the service with combined output redirected to logPath.
	// Already-running services are left alone.
	Start(ctx context.Context, svc *Service, logPath string) error

	// Stop kills the service's session. Stopping a service that is not
	// running succeeds trivially.
	Stop(ctx context.Context, svc *Service) error

	// Restart stops the service, waits up to timeout for it to be observed
	// stopped, then starts it again
	Restart(ctx context.Context, svc *Service, logPath string, timeout time.Duration) error

	// IsRunning queries the backend for the service's session. A missing
	// session is a clean false, not an error.
	IsRunning(ctx context.Context, svc *Service) (bool, error)

	// PID resolves the service's process id best-effort; ok is false when
	// the backend cannot produce one (no session, multiple panes)
	PID(ctx context.Context, svc *Service) (pid int, ok bool, err error)

	// AttachCommand returns the argv that replaces the calling process with
	// an interactive view of the session, or nil when the backend has no
	// interactive mode. The runner never executes it.
	AttachCommand(svc *Service) []string

	// Kind returns the backend tag this runner implements
	Kind() RunnerKind
}

// restartWithPoll is the default restart algorithm, built only from Stop,
// IsRunning, and Start: if the service is running, stop it and poll
// IsRunning at RestartPollInterval until it reports false or timeout
// elapses, then start. Timeout expiry surfaces as ErrStopTimeout; the
// backend may still finish stopping the session afterwards.
func restartWithPoll(ctx context.Context, r Runner, svc *Service, logPath string, timeout time.Duration) error {
	running, err := r.IsRunning(ctx, svc)
	if err != nil {
		return err
	}

	if running {
		if err := r.Stop(ctx, svc); err != nil {
			return err
		}

		deadline := time.Now().Add(timeout)
		ticker := time.NewTicker(RestartPollInterval)
		defer ticker.Stop()

		for {
			running, err := r.IsRunning(ctx, svc)
			if err != nil {
				return err
			}
			if !running {
				break
			}
			if time.Now().After(deadline) {
				return &OpError{Op: OpRestart, Name: svc.Name, Err: ErrStopTimeout}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}

	return r.Start(ctx, svc, logPath)
}
