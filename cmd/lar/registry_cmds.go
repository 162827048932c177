package main

import (
	"context"
	"fmt"

	"github.com/larsproject/lars"
)

// RemoveCmd implements the 'remove' command.
type RemoveCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *RemoveCmd) Run(a *app) error {
	svc, err := a.Store.Remove(c.Name)
	if err != nil {
		return err
	}

	a.infof("Removed service %q (%s)", svc.Name, svc.ID)
	return nil
}

// EnableCmd implements the 'enable' command.
type EnableCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *EnableCmd) Run(a *app) error {
	if err := a.Store.Update(c.Name, func(s *lars.Service) { s.Enabled = true }); err != nil {
		return err
	}
	a.infof("Enabled service %q", c.Name)
	return nil
}

// DisableCmd implements the 'disable' command.
type DisableCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *DisableCmd) Run(a *app) error {
	if err := a.Store.Update(c.Name, func(s *lars.Service) { s.Enabled = false }); err != nil {
		return err
	}
	a.infof("Disabled service %q", c.Name)
	return nil
}

// RenameCmd implements the 'rename' command.
type RenameCmd struct {
	Name    string `arg:"" help:"Current service name"`
	NewName string `arg:"" help:"New service name"`
}

func (c *RenameCmd) Run(a *app) error {
	if err := lars.ValidateServiceName(c.NewName); err != nil {
		return err
	}

	reg, err := a.Store.Load()
	if err != nil {
		return err
	}

	if reg.NameExists(c.NewName) {
		return fmt.Errorf("%w: %s", lars.ErrServiceAlreadyExists, c.NewName)
	}

	svc := reg.FindByName(c.Name)
	if svc == nil {
		return fmt.Errorf("%w: %s", lars.ErrServiceNotFound, c.Name)
	}

	svc.Name = c.NewName
	svc.Touch()

	if err := a.Store.Save(reg); err != nil {
		return err
	}

	// The session is keyed on the id, so a running service keeps running
	a.infof("Renamed service %q to %q", c.Name, c.NewName)
	return nil
}

// ListCmd implements the 'list' command.
type ListCmd struct {
	All bool `short:"a" help:"Include disabled services"`
}

func (c *ListCmd) Run(a *app) error {
	services, err := a.Store.List()
	if err != nil {
		return err
	}

	ctx := context.Background()
	shown := 0

	for i := range services {
		svc := &services[i]
		if !svc.Enabled && !c.All {
			continue
		}

		state := "stopped"
		if runner, err := lars.NewRunner(svc.Runner); err == nil {
			if running, err := runner.IsRunning(ctx, svc); err == nil && running {
				state = "running"
			}
		} else {
			state = "unavailable"
		}

		enabled := "enabled"
		if !svc.Enabled {
			enabled = "disabled"
		}

		fmt.Printf("%-20s %-8s %-10s %-8s %s\n", svc.Name, svc.Runner, state, enabled, svc.Command)
		shown++
	}

	if shown == 0 {
		a.infof("No services registered. Add one with: lar add <command>")
	}
	return nil
}

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Name string `arg:"" help:"Service name"`
}

func (c *InspectCmd) Run(a *app) error {
	svc, err := a.Store.Find(c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Name:       %s\n", svc.Name)
	fmt.Printf("ID:         %s\n", svc.ID)
	fmt.Printf("Command:    %s\n", svc.Command)
	if svc.Cwd != "" {
		fmt.Printf("Workdir:    %s\n", svc.Cwd)
	}
	for key, value := range svc.Env {
		fmt.Printf("Env:        %s=%s\n", key, value)
	}
	fmt.Printf("Enabled:    %t\n", svc.Enabled)
	fmt.Printf("Autostart:  %t\n", svc.Autostart)
	fmt.Printf("Runner:     %s\n", svc.Runner)
	fmt.Printf("Created:    %s\n", svc.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Updated:    %s\n", svc.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Log:        %s\n", a.Store.LogPath(svc.ID))

	runner, err := lars.NewRunner(svc.Runner)
	if err != nil {
		fmt.Printf("State:      unknown (%v)\n", err)
		return nil
	}

	ctx := context.Background()
	running, err := runner.IsRunning(ctx, &svc)
	if err != nil {
		return err
	}

	if running {
		fmt.Printf("State:      running\n")
		if pid, ok, err := runner.PID(ctx, &svc); err == nil && ok {
			fmt.Printf("PID:        %d\n", pid)
		}
	} else {
		fmt.Printf("State:      stopped\n")
	}

	return nil
}
