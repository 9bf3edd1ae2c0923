// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package process runs the external tools (git and package managers) the
// challenge pipeline shells out to.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/stacklok/valor/pkg/logger"
)

// maxStderrTail bounds how much stderr is kept for error messages.
const maxStderrTail = 4096

// Command describes one subprocess invocation.
type Command struct {
	// Name is the executable, resolved through PATH
	Name string
	// Args are passed verbatim; no shell is involved
	Args []string
	// Dir is the working directory; empty means the current directory
	Dir string
	// Stdout and Stderr receive the live output when set
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// ExitCode returns the exit status carried by err, 0 for nil and -1 when the
// command never produced one (e.g. the executable is missing).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return -1
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds every command; zero means no limit
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run starts cmd and waits for it. A non-zero exit yields *ExitError; a
// command that could not be started yields a plain wrapped error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	tail := &tailBuffer{limit: maxStderrTail}
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) // #nosec G204 -- arguments are never passed through a shell
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	if cmd.Stderr != nil {
		c.Stderr = io.MultiWriter(cmd.Stderr, tail)
	} else {
		c.Stderr = tail
	}

	logger.Debugw("running command", "command", cmd.String(), "dir", cmd.Dir)

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command:  cmd.String(),
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(tail.String()),
		}
	}
	return fmt.Errorf("failed to execute command %q: %w", cmd.String(), err)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
