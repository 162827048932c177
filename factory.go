package lars

import "fmt"

// NewRunner resolves a runner kind to a concrete Runner, probing backend
// availability before returning it. Dispatch is pure: no state is created
// until the caller invokes a lifecycle operation.
func NewRunner(kind RunnerKind) (Runner, error) {
	switch kind {
	case RunnerTmux:
		r := NewTmuxRunner()
		if !r.Available() {
			return nil, fmt.Errorf("%w: tmux is not installed or not in PATH", ErrRunnerNotAvailable)
		}
		return r, nil
	case RunnerScreen:
		return nil, fmt.Errorf("%w: screen runner is not yet implemented", ErrRunnerNotAvailable)
	case RunnerDirect:
		return nil, fmt.Errorf("%w: direct runner is not yet implemented", ErrRunnerNotAvailable)
	default:
		return nil, fmt.Errorf("%w: unknown runner kind %q", ErrRunnerNotAvailable, string(kind))
	}
}
