package lars

import "github.com/google/uuid"

// DefaultRestartTimeoutSecs is the stop-wait bound recorded in fresh settings
const DefaultRestartTimeoutSecs = 10

// Settings holds application-wide defaults persisted with the registry
type Settings struct {
	// DefaultRunner is the runner kind assigned to new services
	DefaultRunner RunnerKind `json:"default_runner" yaml:"default_runner"`
	// ShutdownBehavior is consumed by collaborators on supervisor shutdown
	ShutdownBehavior ShutdownBehavior `json:"shutdown_behavior" yaml:"shutdown_behavior"`
	// RestartTimeoutSecs bounds the stop-poll during restart; always > 0
	RestartTimeoutSecs int `json:"restart_timeout_secs" yaml:"restart_timeout_secs"`
}

// DefaultSettings returns the settings written into a fresh registry
func DefaultSettings() Settings {
	return Settings{
		DefaultRunner:      RunnerTmux,
		ShutdownBehavior:   ShutdownStopAll,
		RestartTimeoutSecs: DefaultRestartTimeoutSecs,
	}
}

// Registry is the aggregate of all service records plus settings. It is the
// unit of persistence: the store loads and saves it whole, never partially.
// Service order is insertion order and carries no meaning beyond display.
type Registry struct {
	// ConfigVersion is the schema version for migrations
	ConfigVersion int `json:"config_version" yaml:"config_version"`
	// Services is the ordered collection of records; names are unique
	Services []Service `json:"services" yaml:"services"`
	// Settings holds application-wide defaults
	Settings Settings `json:"settings" yaml:"settings"`
}

// DefaultRegistry returns an empty registry at the current schema version
func DefaultRegistry() Registry {
	return Registry{
		ConfigVersion: CurrentConfigVersion,
		Services:      nil,
		Settings:      DefaultSettings(),
	}
}

// FindByName returns a pointer to the named service, or nil
func (r *Registry) FindByName(name string) *Service {
	for i := range r.Services {
		if r.Services[i].Name == name {
			return &r.Services[i]
		}
	}
	return nil
}

// FindByID returns a pointer to the service with the given id, or nil
func (r *Registry) FindByID(id uuid.UUID) *Service {
	for i := range r.Services {
		if r.Services[i].ID == id {
			return &r.Services[i]
		}
	}
	return nil
}

// NameExists reports whether a service with the given name is registered
func (r *Registry) NameExists(name string) bool {
	return r.FindByName(name) != nil
}

// Add appends a service. Uniqueness is the caller's concern; the store
// rejects duplicates before calling this.
func (r *Registry) Add(svc Service) {
	r.Services = append(r.Services, svc)
}

// RemoveByName removes and returns the named service
func (r *Registry) RemoveByName(name string) (Service, bool) {
	for i := range r.Services {
		if r.Services[i].Name == name {
			svc := r.Services[i]
			r.Services = append(r.Services[:i], r.Services[i+1:]...)
			return svc, true
		}
	}
	return Service{}, false
}
