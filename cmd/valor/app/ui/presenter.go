// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/stacklok/valor/pkg/challenges"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Presenter prints pipeline progress for humans.
type Presenter struct {
	out io.Writer
	err io.Writer
}

// NewPresenter creates a Presenter writing progress to out and failures to errOut.
func NewPresenter(out, errOut io.Writer) *Presenter {
	return &Presenter{out: out, err: errOut}
}

// Header prints the banner shown when the CLI starts.
func (p *Presenter) Header() {
	fmt.Fprintln(p.out, titleStyle.Render("🎯 Valor Challenges CLI"))
	fmt.Fprintln(p.out, mutedStyle.Render("Download and setup interview challenges"))
	fmt.Fprintln(p.out)
}

// Notify implements challenges.Notifier.
func (p *Presenter) Notify(e challenges.Event) {
	switch e.Type {
	case challenges.EventCatalogFetched:
		p.info(fmt.Sprintf("Found %d challenge(s)", e.Count))
	case challenges.EventCatalogEmpty:
		p.Warning("No challenges found in the repository.")
	case challenges.EventFetchStarted:
		p.info(fmt.Sprintf("Downloading %s...", e.Challenge.Path))
	case challenges.EventFetchSucceeded:
		p.success(fmt.Sprintf("Downloaded %s", e.Challenge.Name))
	case challenges.EventCopyStarted:
		p.info(fmt.Sprintf("Copying challenge to %s...", e.Destination))
	case challenges.EventCopySucceeded:
		p.success(fmt.Sprintf("Challenge copied to %s", e.Destination))
	case challenges.EventGitInitSucceeded:
		p.info("Initialized a new git repository")
	case challenges.EventGitInitFailed:
		p.Warning(fmt.Sprintf("Could not initialize a git repository: %v", e.Err))
	case challenges.EventInstallStarted:
		p.info(fmt.Sprintf("Installing dependencies with %s...", e.PackageManager))
	case challenges.EventInstallSucceeded:
		p.success("Dependencies installed successfully")
	case challenges.EventCompleted:
		p.completion(e)
	case challenges.EventFetchFailed, challenges.EventCopyFailed, challenges.EventInstallFailed:
		// reported once by Failure when the run ends
	}
}

// Warning prints a warning line.
func (p *Presenter) Warning(msg string) {
	fmt.Fprintln(p.out, warningStyle.Render("⚠️  "+msg))
}

// Failure prints a run failure.
func (p *Presenter) Failure(d challenges.Description) {
	fmt.Fprintln(p.err, errorStyle.Render("❌ Error:"), d.Message)
	if d.Detail != "" {
		fmt.Fprintln(p.err, errorStyle.Render(d.Detail))
	}
}

func (p *Presenter) completion(e challenges.Event) {
	p.success("Challenge setup complete!")
	p.info(fmt.Sprintf("Challenge location: %s", e.Destination))
	if e.Installed {
		fmt.Fprintln(p.out, mutedStyle.Render("🎉 Dependencies installed and ready to go!"))
		return
	}
	fmt.Fprintln(p.out, mutedStyle.Render(
		fmt.Sprintf("💡 Don't forget to run `%s install` in the challenge directory", e.PackageManager)))
}

func (p *Presenter) info(msg string) {
	fmt.Fprintln(p.out, mutedStyle.Render("📁 "+msg))
}

func (p *Presenter) success(msg string) {
	fmt.Fprintln(p.out, successStyle.Render("✅ "+msg))
}
