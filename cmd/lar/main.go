// Command lar manages local services hosted in tmux sessions.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/larsproject/lars"
)

// Exit codes reported to the shell
const (
	exitSuccess           = 0
	exitGeneralError      = 1
	exitServiceNotFound   = 10
	exitServiceExists     = 11
	exitRunnerUnavailable = 20
	exitStartFailed       = 21
	exitStopFailed        = 22
	exitConfigError       = 30
)

// CLI is the root command surface
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Quiet   bool             `short:"q" help:"Suppress non-error output"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Add      AddCmd      `cmd:"" help:"Add a new service"`
	Remove   RemoveCmd   `cmd:"" help:"Remove a service"`
	Enable   EnableCmd   `cmd:"" help:"Enable a service"`
	Disable  DisableCmd  `cmd:"" help:"Disable a service"`
	List     ListCmd     `cmd:"" help:"List all services"`
	Start    StartCmd    `cmd:"" help:"Start a service"`
	Stop     StopCmd     `cmd:"" help:"Stop a service"`
	Restart  RestartCmd  `cmd:"" help:"Restart a service"`
	StartAll StartAllCmd `cmd:"" help:"Start all enabled services"`
	StopAll  StopAllCmd  `cmd:"" help:"Stop all running services"`
	Rename   RenameCmd   `cmd:"" help:"Rename a service"`
	Inspect  InspectCmd  `cmd:"" help:"Show detailed service information"`
	Attach   AttachCmd   `cmd:"" help:"Attach to a service's session"`
	Logs     LogsCmd     `cmd:"" help:"View service logs"`
	Config   ConfigCmd   `cmd:"" help:"Show or modify settings"`
	Export   ExportCmd   `cmd:"" help:"Export the service registry"`
	Import   ImportCmd   `cmd:"" help:"Import a service registry"`
	Doctor   DoctorCmd   `cmd:"" help:"Check system requirements"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if c.Quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// app carries shared state into command Run methods
type app struct {
	Store *lars.Store
	Quiet bool
}

// infof prints user-facing progress to stdout unless --quiet is set
func (a *app) infof(format string, args ...any) {
	if a.Quiet {
		return
	}
	fmt.Printf(format+"\n", args...)
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("lar"),
		kong.Description("LARS (Local App Runner Service) - manage local services with ease"),
		kong.UsageOnError(),
		kong.Vars{"version": "lar " + lars.Version},
	)

	store, err := lars.DefaultStore()
	if err != nil {
		slog.Error("Failed to resolve config location", "error", err)
		os.Exit(exitConfigError)
	}

	if err := ktx.Run(&app{Store: store, Quiet: cli.Quiet}); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the library's typed failures onto shell exit codes
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, lars.ErrServiceNotFound):
		return exitServiceNotFound
	case errors.Is(err, lars.ErrServiceAlreadyExists):
		return exitServiceExists
	case errors.Is(err, lars.ErrRunnerNotAvailable):
		return exitRunnerUnavailable
	case errors.Is(err, lars.ErrConfigParse):
		return exitConfigError
	}

	var opErr *lars.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case lars.OpStart:
			return exitStartFailed
		case lars.OpStop, lars.OpRestart:
			return exitStopFailed
		case lars.OpLoad, lars.OpSave:
			return exitConfigError
		}
	}

	return exitGeneralError
}
