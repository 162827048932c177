//go:build unix

package main

import (
	"os"
	"os/exec"
	"syscall"
)

// execReplace replaces the current process with argv, handing the terminal
// over to the new program. It only returns on failure.
func execReplace(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	return syscall.Exec(path, argv, os.Environ())
}
