package lars

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService("web", "python3 -m http.server 8000")

	if svc.ID == uuid.Nil {
		t.Error("ID should be populated")
	}
	if svc.Name != "web" {
		t.Errorf("Name = %q, want %q", svc.Name, "web")
	}
	if svc.Command != "python3 -m http.server 8000" {
		t.Errorf("Command = %q", svc.Command)
	}
	if !svc.Enabled {
		t.Error("new services should be enabled")
	}
	if svc.Autostart {
		t.Error("new services should not autostart")
	}
	if svc.Runner != RunnerTmux {
		t.Errorf("Runner = %q, want %q", svc.Runner, RunnerTmux)
	}
	if svc.CreatedAt.IsZero() || svc.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if !svc.CreatedAt.Equal(svc.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on creation")
	}
}

func TestNewServiceUniqueIDs(t *testing.T) {
	a := NewService("a", "true")
	b := NewService("b", "true")
	if a.ID == b.ID {
		t.Error("two services got the same ID")
	}
}

func TestServiceTouch(t *testing.T) {
	svc := NewService("web", "true")
	created := svc.CreatedAt

	time.Sleep(5 * time.Millisecond)
	svc.Touch()

	if !svc.CreatedAt.Equal(created) {
		t.Error("Touch must not change CreatedAt")
	}
	if !svc.UpdatedAt.After(created) {
		t.Error("Touch should advance UpdatedAt")
	}
}

func TestServiceJSONOmitsEmptyOptionals(t *testing.T) {
	svc := NewService("web", "true")
	data, err := json.Marshal(svc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Contains(s, `"cwd"`) {
		t.Error("empty cwd should be omitted")
	}
	if strings.Contains(s, `"env"`) {
		t.Error("empty env should be omitted")
	}
	for _, key := range []string{`"id"`, `"name"`, `"command"`, `"enabled"`, `"autostart"`, `"runner_type"`, `"created_at"`, `"updated_at"`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshalled service missing %s", key)
		}
	}
}

func TestParseRunnerKind(t *testing.T) {
	tests := []struct {
		in      string
		want    RunnerKind
		wantErr bool
	}{
		{"tmux", RunnerTmux, false},
		{"TMUX", RunnerTmux, false},
		{"screen", RunnerScreen, false},
		{"direct", RunnerDirect, false},
		{"systemd", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRunnerKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRunnerKind(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRunnerKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRunnerKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseShutdownBehavior(t *testing.T) {
	tests := []struct {
		in      string
		want    ShutdownBehavior
		wantErr bool
	}{
		{"stop_all", ShutdownStopAll, false},
		{"stop-all", ShutdownStopAll, false},
		{"stopall", ShutdownStopAll, false},
		{"leave_running", ShutdownLeaveRunning, false},
		{"leave-running", ShutdownLeaveRunning, false},
		{"LEAVE_RUNNING", ShutdownLeaveRunning, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := ParseShutdownBehavior(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseShutdownBehavior(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShutdownBehavior(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShutdownBehavior(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistryOperations(t *testing.T) {
	reg := DefaultRegistry()

	if reg.ConfigVersion != CurrentConfigVersion {
		t.Errorf("ConfigVersion = %d, want %d", reg.ConfigVersion, CurrentConfigVersion)
	}
	if len(reg.Services) != 0 {
		t.Errorf("default registry should be empty, has %d services", len(reg.Services))
	}
	if reg.Settings.DefaultRunner != RunnerTmux {
		t.Errorf("DefaultRunner = %q, want %q", reg.Settings.DefaultRunner, RunnerTmux)
	}
	if reg.Settings.ShutdownBehavior != ShutdownStopAll {
		t.Errorf("ShutdownBehavior = %q", reg.Settings.ShutdownBehavior)
	}
	if reg.Settings.RestartTimeoutSecs != DefaultRestartTimeoutSecs {
		t.Errorf("RestartTimeoutSecs = %d", reg.Settings.RestartTimeoutSecs)
	}

	web := NewService("web", "python3 -m http.server")
	reg.Add(web)

	if !reg.NameExists("web") {
		t.Error("NameExists should find added service")
	}
	if reg.NameExists("other") {
		t.Error("NameExists matched a name that was never added")
	}

	found := reg.FindByName("web")
	if found == nil {
		t.Fatal("FindByName returned nil for existing service")
	}
	if found.ID != web.ID {
		t.Error("FindByName returned wrong service")
	}

	byID := reg.FindByID(web.ID)
	if byID == nil || byID.Name != "web" {
		t.Error("FindByID failed for existing service")
	}
	if reg.FindByID(uuid.New()) != nil {
		t.Error("FindByID should return nil for unknown id")
	}

	// FindByName returns a pointer into the registry, mutations stick
	found.Enabled = false
	if reg.FindByName("web").Enabled {
		t.Error("mutation through FindByName pointer was lost")
	}

	removed, ok := reg.RemoveByName("web")
	if !ok {
		t.Fatal("RemoveByName failed for existing service")
	}
	if removed.ID != web.ID {
		t.Error("RemoveByName returned wrong service")
	}
	if len(reg.Services) != 0 {
		t.Error("service still present after removal")
	}
	if _, ok := reg.RemoveByName("web"); ok {
		t.Error("RemoveByName should report false for missing name")
	}
}
