package lars

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
)

// Store owns the on-disk registry. Every mutating operation is a full
// load-mutate-save cycle with no in-process locking: concurrent supervisor
// invocations race on the file and the last writer wins. That hazard is
// accepted for a single-operator local tool.
type Store struct {
	configDir string
	logDir    string
}

// NewStore creates a Store with explicit directories. This is the primary
// constructor, supporting dependency injection for tests without touching
// process environment.
func NewStore(configDir, logDir string) *Store {
	return &Store{
		configDir: configDir,
		logDir:    logDir,
	}
}

// DefaultStore creates a Store rooted at the platform config directory
// (os.UserConfigDir + "lars"), with logs in a "logs" subdirectory. The
// ConfigHomeEnv environment variable overrides the root; it is read once
// here and never again.
func DefaultStore() (*Store, error) {
	if base := os.Getenv(ConfigHomeEnv); base != "" {
		return NewStore(base, filepath.Join(base, "logs")), nil
	}

	root, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}

	configDir := filepath.Join(root, AppDirName)
	return NewStore(configDir, filepath.Join(configDir, "logs")), nil
}

// ConfigDir returns the directory holding the registry file
func (s *Store) ConfigDir() string {
	return s.configDir
}

// LogDir returns the directory holding per-service log files
func (s *Store) LogDir() string {
	return s.logDir
}

// ConfigPath returns the canonical registry file path
func (s *Store) ConfigPath() string {
	return filepath.Join(s.configDir, ConfigFileName)
}

// LogPath returns the log file path for a service identity
func (s *Store) LogPath(id uuid.UUID) string {
	return filepath.Join(s.logDir, id.String()+".log")
}

// EnsureDirs creates the config and log directories if missing
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.configDir, DirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.MkdirAll(s.logDir, DirMode); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	return nil
}

// Load reads the registry from disk. A missing file yields a default
// registry; load never fails to produce one except on genuine I/O or parse
// errors. Registries written by older schema versions are migrated in
// memory before being returned.
func (s *Store) Load() (*Registry, error) {
	path := s.ConfigPath()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		reg := DefaultRegistry()
		return &reg, nil
	}
	if err != nil {
		return nil, &OpError{Op: OpLoad, Name: path, Err: err}
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, &OpError{Op: OpLoad, Name: path, Err: fmt.Errorf("%w: %v", ErrConfigParse, err)}
	}

	migrate(&reg)

	return &reg, nil
}

// Save writes the registry atomically: the full contents go to a temporary
// file which is then renamed over the canonical path. A crash mid-write
// leaves the canonical file untouched; no reader ever observes a partial
// registry.
func (s *Store) Save(reg *Registry) error {
	if err := s.EnsureDirs(); err != nil {
		return &OpError{Op: OpSave, Name: s.ConfigPath(), Err: err}
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return &OpError{Op: OpSave, Name: s.ConfigPath(), Err: err}
	}
	data = append(data, '\n')

	if err := renameio.WriteFile(s.ConfigPath(), data, FileMode); err != nil {
		return &OpError{Op: OpSave, Name: s.ConfigPath(), Err: err}
	}

	return nil
}

// Add registers a new service, rejecting duplicate names
func (s *Store) Add(svc Service) error {
	reg, err := s.Load()
	if err != nil {
		return err
	}

	if reg.NameExists(svc.Name) {
		return &OpError{Op: OpAdd, Name: svc.Name, Err: ErrServiceAlreadyExists}
	}

	reg.Add(svc)
	return s.Save(reg)
}

// Remove deletes the named service and returns the removed record
func (s *Store) Remove(name string) (Service, error) {
	reg, err := s.Load()
	if err != nil {
		return Service{}, err
	}

	svc, ok := reg.RemoveByName(name)
	if !ok {
		return Service{}, &OpError{Op: OpRemove, Name: name, Err: ErrServiceNotFound}
	}

	if err := s.Save(reg); err != nil {
		return Service{}, err
	}

	return svc, nil
}

// Find returns a copy of the named service
func (s *Store) Find(name string) (Service, error) {
	reg, err := s.Load()
	if err != nil {
		return Service{}, err
	}

	svc := reg.FindByName(name)
	if svc == nil {
		return Service{}, &OpError{Op: OpFind, Name: name, Err: ErrServiceNotFound}
	}

	return *svc, nil
}

// Update applies fn to the named service, refreshes its update timestamp,
// and saves the registry
func (s *Store) Update(name string, fn func(*Service)) error {
	reg, err := s.Load()
	if err != nil {
		return err
	}

	svc := reg.FindByName(name)
	if svc == nil {
		return &OpError{Op: OpUpdate, Name: name, Err: ErrServiceNotFound}
	}

	fn(svc)
	svc.Touch()

	return s.Save(reg)
}

// List returns all registered services in insertion order
func (s *Store) List() ([]Service, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return reg.Services, nil
}

// ConfigDirWritable probes whether the config directory accepts writes.
// Best-effort, for diagnostics only.
func (s *Store) ConfigDirWritable() bool {
	return dirWritable(s.configDir)
}

// LogDirWritable probes whether the log directory accepts writes.
// Best-effort, for diagnostics only.
func (s *Store) LogDirWritable() bool {
	return dirWritable(s.logDir)
}

func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return false
	}

	marker := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(marker, []byte("test"), FileMode); err != nil {
		return false
	}
	_ = os.Remove(marker)
	return true
}

// migrate upgrades a loaded registry to the current schema version and
// backfills zero-valued settings from files written before those fields
// existed, keeping the restart timeout invariant (> 0) intact.
func migrate(reg *Registry) {
	if reg.ConfigVersion < CurrentConfigVersion {
		reg.ConfigVersion = CurrentConfigVersion
	}
	if reg.Settings.DefaultRunner == "" {
		reg.Settings.DefaultRunner = RunnerTmux
	}
	if reg.Settings.ShutdownBehavior == "" {
		reg.Settings.ShutdownBehavior = ShutdownStopAll
	}
	if reg.Settings.RestartTimeoutSecs <= 0 {
		reg.Settings.RestartTimeoutSecs = DefaultRestartTimeoutSecs
	}
}
