package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/larsproject/lars"
)

// LogsCmd implements the 'logs' command.
type LogsCmd struct {
	Name   string `arg:"" help:"Service name"`
	Follow bool   `short:"f" help:"Follow log output"`
	Lines  int    `short:"n" default:"50" help:"Number of lines to show"`
}

func (c *LogsCmd) Run(a *app) error {
	svc, err := a.Store.Find(c.Name)
	if err != nil {
		return err
	}

	logPath := a.Store.LogPath(svc.ID)

	lines, err := lars.TailLog(logPath, c.Lines)
	if errors.Is(err, fs.ErrNotExist) {
		if !c.Follow {
			a.infof("No log file found for service %q (expected at %s)", svc.Name, logPath)
			return nil
		}
	} else if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Println(line)
	}

	if !c.Follow {
		return nil
	}

	a.infof("Following logs for %q (Ctrl+C to stop)...", svc.Name)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := lars.FollowLog(ctx, logPath, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
