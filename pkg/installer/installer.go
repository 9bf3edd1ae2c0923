// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package installer detects a JavaScript package manager and installs a
// challenge's dependencies with it.
package installer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/logger"
	"github.com/stacklok/valor/pkg/process"
)

// PackageManager names a supported package manager binary.
type PackageManager string

// Supported package managers, most preferred first.
const (
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	NPM  PackageManager = "npm"
)

// DefaultPreference is the probe order used by Detect.
var DefaultPreference = []PackageManager{PNPM, Yarn, NPM}

// ParsePackageManager validates name against the supported set.
func ParsePackageManager(name string) (PackageManager, error) {
	pm := PackageManager(strings.ToLower(strings.TrimSpace(name)))
	switch pm {
	case PNPM, Yarn, NPM:
		return pm, nil
	default:
		return "", fmt.Errorf("unsupported package manager %q, expected one of pnpm, yarn, npm", name)
	}
}

// ParsePreference validates an ordered list of package manager names.
// An empty list yields DefaultPreference.
func ParsePreference(names []string) ([]PackageManager, error) {
	if len(names) == 0 {
		return DefaultPreference, nil
	}
	out := make([]PackageManager, 0, len(names))
	for _, n := range names {
		pm, err := ParsePackageManager(n)
		if err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, nil
}

// Target is what Install operates on.
type Target struct {
	// Dir is the materialized challenge
	Dir string
	// PackageManager runs the install
	PackageManager PackageManager
}

// Installer probes and runs package managers.
type Installer struct {
	runner     process.Runner
	preference []PackageManager
	stdout     io.Writer
	stderr     io.Writer
}

// Option configures an Installer.
type Option func(*Installer)

// WithPreference replaces the probe order.
func WithPreference(pms []PackageManager) Option {
	return func(i *Installer) {
		if len(pms) > 0 {
			i.preference = pms
		}
	}
}

// WithOutput streams the install output to stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// New creates an Installer.
func New(runner process.Runner, opts ...Option) *Installer {
	i := &Installer{runner: runner, preference: DefaultPreference}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Detect returns the first package manager in preference order that answers
// "--version". When none does, the least preferred entry is returned so the
// install attempt reports the real failure.
func (i *Installer) Detect(ctx context.Context) PackageManager {
	for _, pm := range i.preference {
		err := i.runner.Run(ctx, process.Command{Name: string(pm), Args: []string{"--version"}, Stdout: io.Discard})
		if err == nil {
			logger.Debugw("detected package manager", "package_manager", pm)
			return pm
		}
		logger.Debugw("package manager not available", "package_manager", pm, "error", err)
	}
	return i.preference[len(i.preference)-1]
}

// Install runs "{pm} install" in target.Dir. A failure is reported as
// errors.KindInstallFailed carrying the exit code.
func (i *Installer) Install(ctx context.Context, target Target) error {
	cmd := process.Command{
		Name:   string(target.PackageManager),
		Args:   []string{"install"},
		Dir:    target.Dir,
		Stdout: i.stdout,
		Stderr: i.stderr,
	}

	logger.Debugw("installing dependencies", "package_manager", target.PackageManager, "dir", target.Dir)

	if err := i.runner.Run(ctx, cmd); err != nil {
		code := process.ExitCode(err)
		return errors.NewInstallFailedError(
			fmt.Sprintf("%s install failed with exit code %d", target.PackageManager, code), code, err)
	}
	return nil
}
