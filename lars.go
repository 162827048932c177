package lars

import (
	"io/fs"
	"time"
)

// Registry file constants
const (
	// CurrentConfigVersion is the registry schema version written by this build.
	// Older versions are migrated in memory on load.
	CurrentConfigVersion = 1

	// ConfigFileName is the registry file name inside the config directory
	ConfigFileName = "config.json"

	// ConfigHomeEnv overrides the config root when set; read once at
	// Store construction
	ConfigHomeEnv = "LARS_CONFIG_HOME"

	// AppDirName is the per-platform directory name under the user config root
	AppDirName = "lars"
)

// Lifecycle constants
const (
	// DefaultRestartTimeout bounds the stop-poll during a restart
	DefaultRestartTimeout = 10 * time.Second

	// RestartPollInterval is how often restart re-checks IsRunning while
	// waiting for a service to stop
	RestartPollInterval = 100 * time.Millisecond
)

// Tmux backend constants
const (
	// DefaultTmuxPath is the default path to the tmux binary
	DefaultTmuxPath = "tmux"

	// SessionPrefix is prepended to a service's id to form its tmux
	// session name. Sessions are keyed by id, not name, so renaming a
	// service never orphans its session.
	SessionPrefix = "lar_"
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode fs.FileMode = 0o755

	// FileMode is the default mode for created files
	FileMode fs.FileMode = 0o644
)
