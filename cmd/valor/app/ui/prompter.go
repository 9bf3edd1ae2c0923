// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ui provides terminal UI helpers for the valor CLI.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stacklok/valor/pkg/catalog"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

const (
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
	keyEnter = "enter"
	keyUp    = "up"
	keyDown  = "down"
	keyK     = "k"
	keyJ     = "j"
	keyQ     = "q"

	maxVisibleChoices = 10
)

var (
	docStyle          = lipgloss.NewStyle().Margin(1, 2)
	questionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// selectModel lets the user pick one challenge.
type selectModel struct {
	Challenges []catalog.Challenge
	Cursor     int
	Offset     int
	Confirmed  bool
	Quitting   bool
}

func (*selectModel) Init() tea.Cmd { return nil }

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyCtrlC, keyQ, keyEsc:
		m.Quitting = true
		return m, tea.Quit
	case keyUp, keyK:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case keyDown, keyJ:
		if m.Cursor < len(m.Challenges)-1 {
			m.Cursor++
		}
	case keyEnter:
		m.Confirmed = true
		m.Quitting = true
		return m, tea.Quit
	}

	// keep the cursor inside the visible page
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	} else if m.Cursor >= m.Offset+maxVisibleChoices {
		m.Offset = m.Cursor - maxVisibleChoices + 1
	}
	return m, nil
}

func (m *selectModel) View() string {
	if m.Quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(questionStyle.Render("Which challenge would you like to download?"))
	b.WriteString("\n\n")

	end := min(m.Offset+maxVisibleChoices, len(m.Challenges))
	for i := m.Offset; i < end; i++ {
		c := m.Challenges[i]
		label := c.Name
		if c.Description != "" {
			label = fmt.Sprintf("%s - %s", c.Name, c.Description)
		}
		if i == m.Cursor {
			b.WriteString(selectedItemStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+label) + "\n")
		}
	}
	b.WriteString(helpStyle.Render("\nUse ↑/↓ (or j/k) to move, 'enter' to select, 'q' to quit.\n"))
	return docStyle.Render(b.String())
}

// inputModel reads one line of text.
type inputModel struct {
	Question  string
	Input     textinput.Model
	Confirmed bool
	Quitting  bool
}

func newInputModel(question, placeholder string) *inputModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 60
	input.Focus()
	return &inputModel{Question: question, Input: input}
}

func (*inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyCtrlC, keyEsc:
			m.Quitting = true
			return m, tea.Quit
		case keyEnter:
			m.Confirmed = true
			m.Quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	if m.Quitting {
		return ""
	}
	return docStyle.Render(questionStyle.Render(m.Question) + "\n\n" + m.Input.View() + "\n")
}

// confirmModel asks a yes/no question.
type confirmModel struct {
	Question  string
	Default   bool
	Answer    bool
	Confirmed bool
	Quitting  bool
}

func (*confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(keyMsg.String()) {
	case keyCtrlC, keyEsc:
		m.Quitting = true
		return m, tea.Quit
	case "y":
		m.Answer, m.Confirmed, m.Quitting = true, true, true
		return m, tea.Quit
	case "n":
		m.Answer, m.Confirmed, m.Quitting = false, true, true
		return m, tea.Quit
	case keyEnter:
		m.Answer, m.Confirmed, m.Quitting = m.Default, true, true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.Quitting {
		return ""
	}
	hint := "(y/N)"
	if m.Default {
		hint = "(Y/n)"
	}
	return docStyle.Render(questionStyle.Render(m.Question) + " " + helpStyle.Render(hint) + "\n")
}

// TerminalPrompter asks its questions with interactive terminal prompts.
type TerminalPrompter struct {
	opts []tea.ProgramOption
}

// NewTerminalPrompter creates a TerminalPrompter. Options are passed to
// every bubbletea program it starts.
func NewTerminalPrompter(opts ...tea.ProgramOption) *TerminalPrompter {
	return &TerminalPrompter{opts: opts}
}

func (p *TerminalPrompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}, p.opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

// SelectChallenge implements challenges.Prompter.
func (p *TerminalPrompter) SelectChallenge(ctx context.Context, list []catalog.Challenge) (catalog.Challenge, error) {
	if len(list) == 0 {
		return catalog.Challenge{}, errors.New("no challenges available for selection")
	}
	final, err := p.run(ctx, &selectModel{Challenges: list})
	if err != nil {
		return catalog.Challenge{}, err
	}
	m := final.(*selectModel)
	if !m.Confirmed {
		return catalog.Challenge{}, ErrCancelled
	}
	return list[m.Cursor], nil
}

// ChooseDestination implements challenges.Prompter.
func (p *TerminalPrompter) ChooseDestination(ctx context.Context) (string, error) {
	placeholder, _ := os.Getwd()
	final, err := p.run(ctx, newInputModel(
		"Where would you like to copy the challenge? (Press Enter for current directory)", placeholder))
	if err != nil {
		return "", err
	}
	m := final.(*inputModel)
	if !m.Confirmed {
		return "", ErrCancelled
	}
	return m.Input.Value(), nil
}

// ConfirmInstall implements challenges.Prompter.
func (p *TerminalPrompter) ConfirmInstall(ctx context.Context) (bool, error) {
	return p.confirm(ctx, "Would you like to install dependencies?", true)
}

// ConfirmOverwrite implements challenges.Prompter.
func (p *TerminalPrompter) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	return p.confirm(ctx, fmt.Sprintf("Directory %s already exists. Overwrite?", path), false)
}

func (p *TerminalPrompter) confirm(ctx context.Context, question string, def bool) (bool, error) {
	final, err := p.run(ctx, &confirmModel{Question: question, Default: def})
	if err != nil {
		return false, err
	}
	m := final.(*confirmModel)
	if !m.Confirmed {
		return false, ErrCancelled
	}
	return m.Answer, nil
}
