package lars

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunnerKind identifies the session backend that hosts a service's process
type RunnerKind string

const (
	// RunnerTmux hosts services in detached tmux sessions (default)
	RunnerTmux RunnerKind = "tmux"
	// RunnerScreen hosts services in GNU screen sessions
	RunnerScreen RunnerKind = "screen"
	// RunnerDirect spawns services directly (no interactive attach)
	RunnerDirect RunnerKind = "direct"
)

// ParseRunnerKind parses a runner kind from its string form, case-insensitively
func ParseRunnerKind(s string) (RunnerKind, error) {
	switch RunnerKind(strings.ToLower(s)) {
	case RunnerTmux:
		return RunnerTmux, nil
	case RunnerScreen:
		return RunnerScreen, nil
	case RunnerDirect:
		return RunnerDirect, nil
	default:
		return "", fmt.Errorf("invalid runner kind: %q", s)
	}
}

// String returns the string representation of a RunnerKind
func (k RunnerKind) String() string {
	return string(k)
}

// ShutdownBehavior controls what collaborators do with running services when
// the supervisor itself shuts down. The core records the setting; it does not
// enforce it.
type ShutdownBehavior string

const (
	// ShutdownStopAll stops every running service on shutdown (default)
	ShutdownStopAll ShutdownBehavior = "stop_all"
	// ShutdownLeaveRunning leaves sessions running on shutdown
	ShutdownLeaveRunning ShutdownBehavior = "leave_running"
)

// ParseShutdownBehavior parses a shutdown behavior, accepting hyphenated and
// collapsed spellings
func ParseShutdownBehavior(s string) (ShutdownBehavior, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "_") {
	case "stop_all", "stopall":
		return ShutdownStopAll, nil
	case "leave_running", "leaverunning":
		return ShutdownLeaveRunning, nil
	default:
		return "", fmt.Errorf("invalid shutdown behavior: %q", s)
	}
}

// String returns the string representation of a ShutdownBehavior
func (b ShutdownBehavior) String() string {
	return string(b)
}

// Service is the durable record describing a managed command.
// The ID is immutable after creation; the registry keys uniqueness on Name.
type Service struct {
	// ID is the process-unique identity; session names derive from it
	ID uuid.UUID `json:"id" yaml:"id"`
	// Name is the unique human name (1-64 chars of [A-Za-z0-9_-])
	Name string `json:"name" yaml:"name"`
	// Command is the raw shell command to execute
	Command string `json:"command" yaml:"command"`
	// Cwd is the optional working directory
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	// Env holds environment variable overrides applied at launch
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	// Enabled marks the service as eligible for bulk operations
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Autostart marks the service for start-all on supervisor startup
	Autostart bool `json:"autostart" yaml:"autostart"`
	// Runner selects the session backend
	Runner RunnerKind `json:"runner_type" yaml:"runner_type"`
	// CreatedAt is set once at creation
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	// UpdatedAt is refreshed by every update operation
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewService creates a service with a fresh identity and default flags
func NewService(name, command string) Service {
	now := time.Now().UTC()
	return Service{
		ID:        uuid.New(),
		Name:      name,
		Command:   command,
		Enabled:   true,
		Autostart: false,
		Runner:    RunnerTmux,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp
func (s *Service) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
