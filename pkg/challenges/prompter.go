// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package challenges

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stacklok/valor/pkg/catalog"
)

// Prompter answers the questions the pipeline asks while it runs. Every
// method blocks until an answer is available or ctx is done.
//
//go:generate mockgen -destination=mocks/mock_prompter.go -package=mocks -source=prompter.go Prompter
type Prompter interface {
	// SelectChallenge picks one of the listed challenges
	SelectChallenge(ctx context.Context, challenges []catalog.Challenge) (catalog.Challenge, error)
	// ChooseDestination returns the parent directory for the challenge.
	// An empty answer means the current working directory.
	ChooseDestination(ctx context.Context) (string, error)
	// ConfirmInstall asks whether dependencies should be installed
	ConfirmInstall(ctx context.Context) (bool, error)
	// ConfirmOverwrite asks whether the existing path may be replaced
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// StaticPrompter answers from values fixed up front, for non-interactive use.
type StaticPrompter struct {
	// Name selects the challenge
	Name string
	// Destination is the parent directory
	Destination string
	// Install answers ConfirmInstall
	Install bool
	// Overwrite answers ConfirmOverwrite
	Overwrite bool
}

// SelectChallenge implements Prompter.
func (p *StaticPrompter) SelectChallenge(_ context.Context, list []catalog.Challenge) (catalog.Challenge, error) {
	names := make([]string, 0, len(list))
	for _, c := range list {
		if c.Name == p.Name {
			return c, nil
		}
		names = append(names, c.Name)
	}
	return catalog.Challenge{}, fmt.Errorf("challenge %q not found, available challenges: %s",
		p.Name, strings.Join(names, ", "))
}

// ChooseDestination implements Prompter.
func (p *StaticPrompter) ChooseDestination(context.Context) (string, error) {
	return p.Destination, nil
}

// ConfirmInstall implements Prompter.
func (p *StaticPrompter) ConfirmInstall(context.Context) (bool, error) {
	return p.Install, nil
}

// ConfirmOverwrite implements Prompter.
func (p *StaticPrompter) ConfirmOverwrite(context.Context, string) (bool, error) {
	return p.Overwrite, nil
}

// ResolveDestination turns a destination answer into an absolute path.
// Surrounding whitespace is ignored and an empty answer selects the current
// working directory.
func ResolveDestination(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return os.Getwd()
	}
	if input == "~" || strings.HasPrefix(input, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return filepath.Abs(input)
}
