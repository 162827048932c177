package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/larsproject/lars"
)

// AddCmd implements the 'add' command.
type AddCmd struct {
	Command string `arg:"" help:"The shell command to run"`

	Name     string   `short:"n" help:"Service name (generated from the command if omitted)"`
	Workdir  string   `short:"d" help:"Working directory"`
	Env      []string `short:"e" name:"env" placeholder:"KEY=VALUE" help:"Environment variable override (repeatable)"`
	EnvFile  string   `help:"Load environment overrides from a dotenv file"`
	Disabled bool     `help:"Add in disabled state"`
	Runner   string   `short:"r" help:"Runner kind (tmux, screen, direct); defaults to the configured default"`
}

func (c *AddCmd) Run(a *app) error {
	if err := lars.ValidateNotEmpty(c.Command); err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = lars.GenerateServiceName(c.Command)
	}
	if err := lars.ValidateServiceName(name); err != nil {
		return err
	}

	svc := lars.NewService(name, c.Command)

	if c.Workdir != "" {
		abs, err := filepath.Abs(c.Workdir)
		if err != nil {
			return fmt.Errorf("resolving workdir: %w", err)
		}
		svc.Cwd = abs
	}

	env := make(map[string]string)
	if c.EnvFile != "" {
		fromFile, err := godotenv.Read(c.EnvFile)
		if err != nil {
			return fmt.Errorf("reading env file %s: %w", c.EnvFile, err)
		}
		for key, value := range fromFile {
			env[key] = value
		}
	}
	for _, kv := range c.Env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid environment override %q, want KEY=VALUE", kv)
		}
		env[key] = value
	}
	if len(env) > 0 {
		svc.Env = env
	}

	if c.Disabled {
		svc.Enabled = false
	}

	if c.Runner != "" {
		kind, err := lars.ParseRunnerKind(c.Runner)
		if err != nil {
			return err
		}
		svc.Runner = kind
	} else {
		reg, err := a.Store.Load()
		if err != nil {
			return err
		}
		svc.Runner = reg.Settings.DefaultRunner
	}

	if err := a.Store.Add(svc); err != nil {
		return err
	}

	a.infof("Added service %q (%s)", svc.Name, svc.ID)
	return nil
}
