package lars

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSessionNameDerivedFromID(t *testing.T) {
	svc := NewService("web", "true")

	name := SessionName(&svc)
	if !strings.HasPrefix(name, SessionPrefix) {
		t.Errorf("session name %q missing prefix %q", name, SessionPrefix)
	}
	if !strings.Contains(name, svc.ID.String()) {
		t.Errorf("session name %q should embed the service id", name)
	}
	if strings.Contains(name, "web") {
		t.Errorf("session name %q should not embed the service name", name)
	}

	// Renaming must not change the session identity
	svc.Name = "api"
	if SessionName(&svc) != name {
		t.Error("session name changed after rename")
	}
}

func TestLaunchCommand(t *testing.T) {
	svc := NewService("web", "python3 -m http.server 8000")

	got, err := launchCommand(&svc, "/var/log/lars/web.log")
	if err != nil {
		t.Fatal(err)
	}
	want := "python3 -m http.server 8000 > /var/log/lars/web.log 2>&1"
	if got != want {
		t.Errorf("launchCommand = %q, want %q", got, want)
	}
}

func TestLaunchCommandQuotesLogPath(t *testing.T) {
	svc := NewService("web", "true")

	got, err := launchCommand(&svc, "/tmp/my logs/web.log")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "'/tmp/my logs/web.log'") {
		t.Errorf("log path with spaces not quoted: %q", got)
	}
}

func TestLaunchCommandRejectsNullByte(t *testing.T) {
	svc := NewService("web", "true")

	_, err := launchCommand(&svc, "/tmp/bad\x00path.log")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestAttachCommand(t *testing.T) {
	r := NewTmuxRunner()
	svc := NewService("web", "true")

	argv := r.AttachCommand(&svc)
	want := []string{r.TmuxPath, "attach-session", "-t", SessionName(&svc)}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("AttachCommand = %v, want %v", argv, want)
	}
}

func TestTmuxRunnerKind(t *testing.T) {
	if got := NewTmuxRunner().Kind(); got != RunnerTmux {
		t.Errorf("Kind = %q, want %q", got, RunnerTmux)
	}
}

func requireTmux(t *testing.T) *TmuxRunner {
	t.Helper()
	r := NewTmuxRunner()
	if !r.Available() {
		t.Skip("tmux not installed")
	}
	return r
}

func TestTmuxStopNeverStarted(t *testing.T) {
	r := requireTmux(t)
	svc := NewService("ghost", "true")
	ctx := context.Background()

	if err := r.Stop(ctx, &svc); err != nil {
		t.Fatalf("Stop on never-started service: %v", err)
	}
	running, err := r.IsRunning(ctx, &svc)
	if err != nil {
		t.Fatal(err)
	}
	if running {
		t.Error("never-started service reported running")
	}
}

func TestTmuxStartStop(t *testing.T) {
	r := requireTmux(t)
	svc := NewService("sleeper", "sleep 60")
	logPath := t.TempDir() + "/sleeper.log"
	ctx := context.Background()

	if err := r.Start(ctx, &svc, logPath); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop(ctx, &svc)

	running, err := r.IsRunning(ctx, &svc)
	if err != nil {
		t.Fatal(err)
	}
	if !running {
		t.Fatal("service not running after Start")
	}

	pid, ok, err := r.PID(ctx, &svc)
	if err != nil {
		t.Fatalf("PID: %v", err)
	}
	if !ok || pid <= 0 {
		t.Errorf("PID = (%d, %v), want a positive pid", pid, ok)
	}

	// Start again should be a no-op, not a second session
	if err := r.Start(ctx, &svc, logPath); err != nil {
		t.Errorf("second Start: %v", err)
	}

	if err := r.Stop(ctx, &svc); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		running, err = r.IsRunning(ctx, &svc)
		if err != nil {
			t.Fatal(err)
		}
		if !running {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("service still running 5s after Stop")
		}
		time.Sleep(100 * time.Millisecond)
	}
}
