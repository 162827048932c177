//go:build !unix

package main

import (
	"errors"
	"os"
	"os/exec"
)

// execReplace approximates process replacement on platforms without exec:
// spawn the command wired to our stdio, wait, and forward its exit status.
func execReplace(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		os.Exit(0)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	return err
}
