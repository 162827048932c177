package lars

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// TmuxRunner hosts each service in a detached tmux session named after the
// service's identity. All control flows through tmux subcommands; the
// session owns the process group, so lars never supervises the child
// directly.
type TmuxRunner struct {
	// TmuxPath is the tmux binary to invoke
	TmuxPath string
}

// NewTmuxRunner creates a TmuxRunner using the default tmux binary
func NewTmuxRunner() *TmuxRunner {
	return &TmuxRunner{TmuxPath: DefaultTmuxPath}
}

// Kind returns RunnerTmux
func (r *TmuxRunner) Kind() RunnerKind {
	return RunnerTmux
}

// SessionName returns the tmux session name for a service. It derives from
// the immutable id, never the name, so renames do not orphan sessions.
func SessionName(svc *Service) string {
	return SessionPrefix + svc.ID.String()
}

// Available reports whether the tmux binary responds to a version query
func (r *TmuxRunner) Available() bool {
	return exec.Command(r.TmuxPath, "-V").Run() == nil
}

// Version returns the tmux version string, or false if tmux is unavailable
func (r *TmuxRunner) Version() (string, bool) {
	out, err := exec.Command(r.TmuxPath, "-V").Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// launchCommand wraps a service's raw command with output redirection. The
// log path is shell-quoted; the command itself is passed through untouched
// so pipelines and expansions keep working.
func launchCommand(svc *Service, logPath string) (string, error) {
	if strings.ContainsRune(logPath, 0) {
		return "", ErrInvalidPath
	}
	return fmt.Sprintf("%s > %s 2>&1", svc.Command, shellQuote(logPath)), nil
}

// Start launches the service in a new detached session. Environment
// overrides are applied to the tmux process, not spliced into the command
// string, so values are never shell-interpreted twice.
func (r *TmuxRunner) Start(ctx context.Context, svc *Service, logPath string) error {
	if !r.Available() {
		return &OpError{Op: OpStart, Name: svc.Name, Err: fmt.Errorf("%w: tmux is not installed or not in PATH", ErrRunnerNotAvailable)}
	}

	running, err := r.IsRunning(ctx, svc)
	if err != nil {
		return err
	}
	if running {
		return nil
	}

	shellCmd, err := launchCommand(svc, logPath)
	if err != nil {
		return &OpError{Op: OpStart, Name: svc.Name, Err: err}
	}

	args := []string{"new-session", "-d", "-s", SessionName(svc)}
	if svc.Cwd != "" {
		if strings.ContainsRune(svc.Cwd, 0) {
			return &OpError{Op: OpStart, Name: svc.Name, Err: ErrInvalidPath}
		}
		args = append(args, "-c", svc.Cwd)
	}
	args = append(args, "sh", "-c", shellCmd)

	cmd := exec.CommandContext(ctx, r.TmuxPath, args...)
	cmd.Env = os.Environ()
	for key, value := range svc.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &OpError{
			Op:   OpStart,
			Name: svc.Name,
			Err:  fmt.Errorf("%w: tmux new-session: %v (stderr: %s)", ErrProcessFailed, err, strings.TrimSpace(stderr.String())),
		}
	}

	return nil
}

// Stop kills the service's session. tmux reports failure for a session that
// no longer exists; that counts as success when a post-check confirms the
// service is not running.
func (r *TmuxRunner) Stop(ctx context.Context, svc *Service) error {
	err := exec.CommandContext(ctx, r.TmuxPath, "kill-session", "-t", SessionName(svc)).Run()
	if err == nil {
		return nil
	}

	running, rerr := r.IsRunning(ctx, svc)
	if rerr != nil {
		return rerr
	}
	if running {
		return &OpError{Op: OpStop, Name: svc.Name, Err: fmt.Errorf("%w: tmux kill-session: %v", ErrProcessFailed, err)}
	}

	return nil
}

// Restart applies the default stop-poll-start algorithm
func (r *TmuxRunner) Restart(ctx context.Context, svc *Service, logPath string, timeout time.Duration) error {
	return restartWithPoll(ctx, r, svc, logPath, timeout)
}

// IsRunning reports whether the service's session exists. A non-zero exit
// from has-session means no session; only a failure to invoke tmux at all
// is an error.
func (r *TmuxRunner) IsRunning(ctx context.Context, svc *Service) (bool, error) {
	err := exec.CommandContext(ctx, r.TmuxPath, "has-session", "-t", SessionName(svc)).Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}

	return false, &OpError{Op: OpStatus, Name: svc.Name, Err: err}
}

// PID resolves the pane process id. A session with no panes or more than
// one yields no pid rather than an error.
func (r *TmuxRunner) PID(ctx context.Context, svc *Service) (int, bool, error) {
	out, err := exec.CommandContext(ctx, r.TmuxPath, "list-panes", "-t", SessionName(svc), "-F", "#{pane_pid}").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, false, nil
		}
		return 0, false, &OpError{Op: OpPID, Name: svc.Name, Err: err}
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, false, nil
	}

	return pid, true, nil
}

// AttachCommand returns the argv for an interactive attach to the session
func (r *TmuxRunner) AttachCommand(svc *Service) []string {
	return []string{r.TmuxPath, "attach-session", "-t", SessionName(svc)}
}
