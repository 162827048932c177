package lars

import (
	"errors"
	"testing"
)

func TestNewRunnerTmux(t *testing.T) {
	r, err := NewRunner(RunnerTmux)
	if !NewTmuxRunner().Available() {
		if !errors.Is(err, ErrRunnerNotAvailable) {
			t.Errorf("without tmux installed, expected ErrRunnerNotAvailable, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("NewRunner(tmux): %v", err)
	}
	if r.Kind() != RunnerTmux {
		t.Errorf("Kind = %q, want %q", r.Kind(), RunnerTmux)
	}
}

func TestNewRunnerUnimplementedKinds(t *testing.T) {
	for _, kind := range []RunnerKind{RunnerScreen, RunnerDirect} {
		_, err := NewRunner(kind)
		if !errors.Is(err, ErrRunnerNotAvailable) {
			t.Errorf("NewRunner(%q) = %v, want ErrRunnerNotAvailable", kind, err)
		}
	}
}

func TestNewRunnerUnknownKind(t *testing.T) {
	_, err := NewRunner(RunnerKind("slurm"))
	if !errors.Is(err, ErrRunnerNotAvailable) {
		t.Fatalf("expected ErrRunnerNotAvailable, got %v", err)
	}
}
