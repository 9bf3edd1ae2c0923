// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package challenges drives the acquisition of one challenge: list the
// catalog, let the user pick a challenge and a destination, fetch only that
// sub-tree into a scratch workspace, copy it out and optionally install its
// dependencies.
package challenges

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/stacklok/valor/pkg/catalog"
	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/git"
	"github.com/stacklok/valor/pkg/installer"
	"github.com/stacklok/valor/pkg/logger"
	"github.com/stacklok/valor/pkg/materialize"
	"github.com/stacklok/valor/pkg/repo"
)

// Catalog lists the challenges of a repository.
type Catalog interface {
	List(ctx context.Context, info repo.Info, dir string) ([]catalog.Challenge, error)
}

// Workspace scopes a scratch directory to the lifetime of fn.
type Workspace interface {
	With(fn func(dir string) error) error
}

// Materializer copies a fetched challenge to its destination.
type Materializer interface {
	Copy(src, dst string, opts materialize.Options) error
}

// Installer detects a package manager and installs dependencies.
type Installer interface {
	Detect(ctx context.Context) installer.PackageManager
	Install(ctx context.Context, target installer.Target) error
}

// Settings are the per-run parameters of a Pipeline.
type Settings struct {
	// Repo locates the challenges repository
	Repo repo.Info
	// CloneURL is handed to the fetcher
	CloneURL string
	// ChallengesDir is the repository directory holding the challenges
	ChallengesDir string
	// Depth is the number of commits to fetch
	Depth int
	// Sparse fetches only the selected challenge
	Sparse bool
	// Exclude lists names skipped while copying
	Exclude []string
	// InitGitRepository turns the copied challenge into a fresh repository
	InitGitRepository bool
	// PackageManager skips detection when set
	PackageManager installer.PackageManager
	// Force replaces an existing destination without asking
	Force bool
}

// Dependencies are the collaborators of a Pipeline. Initializer and
// Notifier are optional.
type Dependencies struct {
	Catalog      Catalog
	Workspace    Workspace
	Fetcher      git.Fetcher
	Materializer Materializer
	Installer    Installer
	Initializer  git.Initializer
	Prompter     Prompter
	Notifier     Notifier
}

// Result describes a finished run. It is returned alongside an install
// failure, since the copied challenge stays in place.
type Result struct {
	// Challenge is the selected challenge; zero when the catalog was empty
	Challenge catalog.Challenge
	// Destination is the absolute path of the copied challenge
	Destination string
	// PackageManager installed, or is suggested for, the dependencies
	PackageManager installer.PackageManager
	// Installed reports whether dependencies were installed
	Installed bool
}

// Pipeline runs the acquisition state machine once.
type Pipeline struct {
	settings Settings
	deps     Dependencies
	state    State
	runID    string
	log      *slog.Logger
}

// NewPipeline creates a Pipeline in StateIdle.
func NewPipeline(settings Settings, deps Dependencies) *Pipeline {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	runID := uuid.NewString()
	return &Pipeline{
		settings: settings,
		deps:     deps,
		state:    StateIdle,
		runID:    runID,
		log:      logger.Get().With("run_id", runID),
	}
}

// State returns the current stage.
func (p *Pipeline) State() State {
	return p.state
}

// RunID identifies this run in logs.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes the pipeline. On failure the pipeline ends in StateFailed and
// the classified error is returned; the Result is non-nil whenever the
// challenge was copied.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.state != StateIdle {
		return nil, fmt.Errorf("pipeline already ran, state %s", p.state)
	}

	result, err := p.run(ctx)
	if err != nil {
		p.fail(err)
		return result, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	if err := p.transition(StateCataloging); err != nil {
		return nil, err
	}
	list, err := p.deps.Catalog.List(ctx, p.settings.Repo, p.settings.ChallengesDir)
	if err != nil {
		return nil, err
	}
	p.deps.Notifier.Notify(Event{Type: EventCatalogFetched, Count: len(list)})

	if len(list) == 0 {
		p.deps.Notifier.Notify(Event{Type: EventCatalogEmpty})
		return &Result{}, p.transition(StateDone)
	}

	if err := p.transition(StateAwaitingSelection); err != nil {
		return nil, err
	}
	challenge, destination, overwrite, err := p.choose(ctx, list)
	if err != nil {
		return nil, err
	}

	if err := p.acquire(ctx, challenge, destination, overwrite); err != nil {
		return nil, err
	}
	result := &Result{Challenge: challenge, Destination: destination}

	if err := p.transition(StateAwaitingInstallChoice); err != nil {
		return result, err
	}
	if p.settings.InitGitRepository && p.deps.Initializer != nil {
		p.initRepository(ctx, challenge, destination)
	}

	install, err := p.deps.Prompter.ConfirmInstall(ctx)
	if err != nil {
		return result, err
	}
	if !install {
		result.PackageManager = p.packageManager(ctx, false)
		p.complete(result)
		return result, p.transition(StateDone)
	}

	if err := p.transition(StateInstalling); err != nil {
		return result, err
	}
	result.PackageManager = p.packageManager(ctx, true)
	event := Event{Challenge: challenge, Destination: destination, PackageManager: result.PackageManager}

	event.Type = EventInstallStarted
	p.deps.Notifier.Notify(event)
	if err := p.deps.Installer.Install(ctx, installer.Target{Dir: destination, PackageManager: result.PackageManager}); err != nil {
		event.Type, event.Err = EventInstallFailed, err
		p.deps.Notifier.Notify(event)
		return result, err
	}
	event.Type = EventInstallSucceeded
	p.deps.Notifier.Notify(event)

	result.Installed = true
	p.complete(result)
	return result, p.transition(StateDone)
}

// choose asks for the challenge and its destination, and settles whether an
// existing destination may be replaced before anything is fetched.
func (p *Pipeline) choose(ctx context.Context, list []catalog.Challenge) (catalog.Challenge, string, bool, error) {
	challenge, err := p.deps.Prompter.SelectChallenge(ctx, list)
	if err != nil {
		return catalog.Challenge{}, "", false, err
	}
	parent, err := p.deps.Prompter.ChooseDestination(ctx)
	if err != nil {
		return catalog.Challenge{}, "", false, err
	}
	parent, err = ResolveDestination(parent)
	if err != nil {
		return catalog.Challenge{}, "", false, fmt.Errorf("failed to resolve destination: %w", err)
	}
	destination := filepath.Join(parent, challenge.Name)

	if _, err := os.Lstat(destination); err != nil {
		// nothing to replace
		return challenge, destination, false, nil
	}
	if p.settings.Force {
		return challenge, destination, true, nil
	}
	ok, err := p.deps.Prompter.ConfirmOverwrite(ctx, destination)
	if err != nil {
		return catalog.Challenge{}, "", false, err
	}
	if !ok {
		return catalog.Challenge{}, "", false, errors.NewDestinationExistsError(destination)
	}
	return challenge, destination, true, nil
}

// acquire fetches the challenge into a workspace and copies it out. The
// workspace is released on every path out of here.
func (p *Pipeline) acquire(ctx context.Context, challenge catalog.Challenge, destination string, overwrite bool) error {
	if err := p.transition(StateFetching); err != nil {
		return err
	}
	event := Event{Challenge: challenge, Destination: destination}

	return p.deps.Workspace.With(func(dir string) error {
		event.Type = EventFetchStarted
		p.deps.Notifier.Notify(event)
		p.log.Debug("fetching challenge", "challenge", challenge.Path)

		err := p.deps.Fetcher.Fetch(ctx, git.FetchRequest{
			URL:    p.settings.CloneURL,
			Branch: p.settings.Repo.Branch,
			Path:   challenge.Path,
			Dir:    dir,
			Depth:  p.settings.Depth,
			Sparse: p.settings.Sparse,
		})
		if err != nil {
			event.Type, event.Err = EventFetchFailed, err
			p.deps.Notifier.Notify(event)
			return err
		}
		event.Type = EventFetchSucceeded
		p.deps.Notifier.Notify(event)

		if err := p.transition(StateMaterializing); err != nil {
			return err
		}
		event.Type = EventCopyStarted
		p.deps.Notifier.Notify(event)

		source := filepath.Join(dir, filepath.FromSlash(challenge.Path))
		err = p.deps.Materializer.Copy(source, destination, materialize.Options{
			Overwrite: overwrite,
			Exclude:   p.settings.Exclude,
		})
		if err != nil {
			event.Type, event.Err = EventCopyFailed, err
			p.deps.Notifier.Notify(event)
			return err
		}
		event.Type = EventCopySucceeded
		p.deps.Notifier.Notify(event)
		return nil
	})
}

func (p *Pipeline) initRepository(ctx context.Context, challenge catalog.Challenge, destination string) {
	event := Event{Type: EventGitInitSucceeded, Challenge: challenge, Destination: destination}
	if err := p.deps.Initializer.Init(ctx, destination); err != nil {
		p.log.Warn("failed to initialize git repository", "error", err)
		event.Type, event.Err = EventGitInitFailed, err
	}
	p.deps.Notifier.Notify(event)
}

// packageManager returns the configured package manager, probing for one
// only when an install is about to run.
func (p *Pipeline) packageManager(ctx context.Context, detect bool) installer.PackageManager {
	if p.settings.PackageManager != "" {
		return p.settings.PackageManager
	}
	if detect {
		return p.deps.Installer.Detect(ctx)
	}
	return installer.PNPM
}

func (p *Pipeline) complete(result *Result) {
	p.deps.Notifier.Notify(Event{
		Type:           EventCompleted,
		Challenge:      result.Challenge,
		Destination:    result.Destination,
		PackageManager: result.PackageManager,
		Installed:      result.Installed,
	})
}

func (p *Pipeline) transition(to State) error {
	if !CanTransition(p.state, to) {
		return fmt.Errorf("invalid pipeline transition from %s to %s", p.state, to)
	}
	p.log.Debug("pipeline transition", "from", p.state.String(), "to", to.String())
	p.state = to
	return nil
}

func (p *Pipeline) fail(err error) {
	kind, _ := errors.KindOf(err)
	p.log.Debug("pipeline failed", "state", p.state.String(), "kind", string(kind), "error", err)
	if !p.state.Terminal() {
		p.state = StateFailed
	}
}
