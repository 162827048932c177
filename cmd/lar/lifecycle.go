package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/larsproject/lars"
)

// ensureLogParent creates the log file's parent directory; the backend's
// shell redirection cannot do that itself.
func ensureLogParent(logPath string) error {
	return os.MkdirAll(filepath.Dir(logPath), 0o755)
}

// StartCmd implements the 'start' command.
type StartCmd struct {
	Name   string `arg:"" help:"Service name"`
	Attach bool   `short:"a" help:"Attach to the session after starting"`
}

func (c *StartCmd) Run(a *app) error {
	svc, err := a.Store.Find(c.Name)
	if err != nil {
		return err
	}

	runner, err := lars.NewRunner(svc.Runner)
	if err != nil {
		return err
	}

	logPath := a.Store.LogPath(svc.ID)
	if err := ensureLogParent(logPath); err != nil {
		return err
	}

	ctx := context.Background()
	running, err := runner.IsRunning(ctx, &svc)
	if err != nil {
		return err
	}

	if running {
		a.infof("Service %q is already running", svc.Name)
	} else {
		if err := runner.Start(ctx, &svc, logPath); err != nil {
			return err
		}
		a.infof("Started service %q (log: %s)", svc.Name, logPath)
	}

	if c.Attach {
		return attachTo(a, runner, &svc)
	}
	return nil
}

// StopCmd implements the 'stop' command.
type StopCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *StopCmd) Run(a *app) error {
	svc, err := a.Store.Find(c.Name)
	if err != nil {
		return err
	}

	runner, err := lars.NewRunner(svc.Runner)
	if err != nil {
		return err
	}

	if err := runner.Stop(context.Background(), &svc); err != nil {
		return err
	}

	a.infof("Stopped service %q", svc.Name)
	return nil
}

// RestartCmd implements the 'restart' command.
type RestartCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *RestartCmd) Run(a *app) error {
	reg, err := a.Store.Load()
	if err != nil {
		return err
	}

	svc := reg.FindByName(c.Name)
	if svc == nil {
		return fmt.Errorf("%w: %s", lars.ErrServiceNotFound, c.Name)
	}

	runner, err := lars.NewRunner(svc.Runner)
	if err != nil {
		return err
	}

	logPath := a.Store.LogPath(svc.ID)
	if err := ensureLogParent(logPath); err != nil {
		return err
	}

	timeout := time.Duration(reg.Settings.RestartTimeoutSecs) * time.Second
	if err := runner.Restart(context.Background(), svc, logPath, timeout); err != nil {
		return err
	}

	a.infof("Restarted service %q", svc.Name)
	return nil
}

// StartAllCmd implements the 'start-all' command.
type StartAllCmd struct {
	Autostart bool `help:"Only start services flagged for autostart"`
}

func (c *StartAllCmd) Run(a *app) error {
	sup := lars.NewSupervisor(a.Store)
	ctx := context.Background()

	var err error
	if c.Autostart {
		err = sup.StartAutostart(ctx)
	} else {
		err = sup.StartEnabled(ctx)
	}
	if err != nil {
		var merr *lars.MultiError
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				slog.Error("Failed to start service", "error", e)
			}
		}
		return err
	}

	a.infof("Started all enabled services")
	return nil
}

// StopAllCmd implements the 'stop-all' command.
type StopAllCmd struct{}

func (c *StopAllCmd) Run(a *app) error {
	sup := lars.NewSupervisor(a.Store)
	if err := sup.StopAll(context.Background()); err != nil {
		var merr *lars.MultiError
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				slog.Error("Failed to stop service", "error", e)
			}
		}
		return err
	}

	a.infof("Stopped all running services")
	return nil
}

// AttachCmd implements the 'attach' command.
type AttachCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *AttachCmd) Run(a *app) error {
	svc, err := a.Store.Find(c.Name)
	if err != nil {
		return err
	}

	runner, err := lars.NewRunner(svc.Runner)
	if err != nil {
		return err
	}

	running, err := runner.IsRunning(context.Background(), &svc)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("service %q is not running", svc.Name)
	}

	return attachTo(a, runner, &svc)
}

func attachTo(a *app, runner lars.Runner, svc *lars.Service) error {
	argv := runner.AttachCommand(svc)
	if argv == nil {
		return fmt.Errorf("%w: %s runner has no interactive mode", lars.ErrOperationNotSupported, runner.Kind())
	}

	a.infof("Attaching to session...")
	return execReplace(argv)
}
