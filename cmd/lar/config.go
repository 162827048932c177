package main

import (
	"fmt"
	"strconv"

	"github.com/larsproject/lars"
)

// ConfigCmd groups the settings subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show current settings"`
	Set  ConfigSetCmd  `cmd:"" help:"Change a setting"`
}

// ConfigShowCmd prints the persisted settings.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(a *app) error {
	reg, err := a.Store.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Config file:          %s\n", a.Store.ConfigPath())
	fmt.Printf("Log directory:        %s\n", a.Store.LogDir())
	fmt.Printf("default-runner:       %s\n", reg.Settings.DefaultRunner)
	fmt.Printf("shutdown-behavior:    %s\n", reg.Settings.ShutdownBehavior)
	fmt.Printf("restart-timeout:      %ds\n", reg.Settings.RestartTimeoutSecs)
	return nil
}

// ConfigSetCmd changes one setting.
type ConfigSetCmd struct {
	Key   string `arg:"" enum:"default-runner,shutdown-behavior,restart-timeout" help:"Setting to change (default-runner, shutdown-behavior, restart-timeout)"`
	Value string `arg:"" help:"New value"`
}

func (c *ConfigSetCmd) Run(a *app) error {
	reg, err := a.Store.Load()
	if err != nil {
		return err
	}

	switch c.Key {
	case "default-runner":
		kind, err := lars.ParseRunnerKind(c.Value)
		if err != nil {
			return err
		}
		reg.Settings.DefaultRunner = kind

	case "shutdown-behavior":
		behavior, err := lars.ParseShutdownBehavior(c.Value)
		if err != nil {
			return err
		}
		reg.Settings.ShutdownBehavior = behavior

	case "restart-timeout":
		secs, err := strconv.Atoi(c.Value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("restart-timeout must be a positive integer, got %q", c.Value)
		}
		reg.Settings.RestartTimeoutSecs = secs
	}

	if err := a.Store.Save(reg); err != nil {
		return err
	}

	a.infof("Set %s = %s", c.Key, c.Value)
	return nil
}

// DoctorCmd implements the 'doctor' command.
type DoctorCmd struct{}

func (c *DoctorCmd) Run(a *app) error {
	failed := 0

	check := func(name string, ok bool, detail string) {
		status := "ok"
		if !ok {
			status = "FAIL"
			failed++
		}
		if detail != "" {
			fmt.Printf("%-28s %-4s %s\n", name, status, detail)
		} else {
			fmt.Printf("%-28s %s\n", name, status)
		}
	}

	tmux := lars.NewTmuxRunner()
	version, available := tmux.Version()
	check("tmux available", available, version)

	check("config dir writable", a.Store.ConfigDirWritable(), a.Store.ConfigDir())
	check("log dir writable", a.Store.LogDirWritable(), a.Store.LogDir())

	reg, err := a.Store.Load()
	if err != nil {
		check("registry parses", false, err.Error())
	} else {
		check("registry parses", true, fmt.Sprintf("%d service(s)", len(reg.Services)))
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
