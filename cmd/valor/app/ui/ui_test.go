// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/valor/pkg/catalog"
	"github.com/stacklok/valor/pkg/challenges"
	"github.com/stacklok/valor/pkg/installer"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleChallenges(n int) []catalog.Challenge {
	out := make([]catalog.Challenge, n)
	for i := range out {
		name := fmt.Sprintf("c%02d", i)
		out[i] = catalog.Challenge{Name: name, Path: "challenges/" + name, Description: "Challenge: " + name}
	}
	return out
}

func TestSelectModel_Navigation(t *testing.T) {
	t.Parallel()

	m := &selectModel{Challenges: sampleChallenges(3)}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(keys("j"))
	m.Update(keys("j")) // clamped at the last entry
	assert.Equal(t, 2, m.Cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.Cursor)
	assert.Contains(t, m.View(), "> c01 - Challenge: c01")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Confirmed)
	assert.Empty(t, m.View())
}

func TestSelectModel_Paging(t *testing.T) {
	t.Parallel()

	m := &selectModel{Challenges: sampleChallenges(15)}
	for i := 0; i < 12; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 12, m.Cursor)
	assert.Equal(t, 3, m.Offset)

	view := m.View()
	assert.NotContains(t, view, "c02 -")
	assert.Contains(t, view, "c12 -")
}

func TestSelectModel_Quit(t *testing.T) {
	t.Parallel()

	m := &selectModel{Challenges: sampleChallenges(2)}
	m.Update(keys("q"))
	assert.True(t, m.Quitting)
	assert.False(t, m.Confirmed)
}

func TestInputModel(t *testing.T) {
	t.Parallel()

	m := newInputModel("Where?", "/home/dev")
	for _, r := range "/tmp/out" {
		m.Update(keys(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.Confirmed)
	assert.Equal(t, "/tmp/out", m.Input.Value())

	cancelled := newInputModel("Where?", "")
	cancelled.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, cancelled.Confirmed)
	assert.True(t, cancelled.Quitting)
}

func TestConfirmModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		def       bool
		key       tea.KeyMsg
		answer    bool
		confirmed bool
	}{
		{"yes", false, keys("y"), true, true},
		{"upper yes", false, keys("Y"), true, true},
		{"no", true, keys("n"), false, true},
		{"enter takes default yes", true, tea.KeyMsg{Type: tea.KeyEnter}, true, true},
		{"enter takes default no", false, tea.KeyMsg{Type: tea.KeyEnter}, false, true},
		{"ctrl+c cancels", true, tea.KeyMsg{Type: tea.KeyCtrlC}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &confirmModel{Question: "Install?", Default: tt.def}
			m.Update(tt.key)
			assert.Equal(t, tt.answer, m.Answer)
			assert.Equal(t, tt.confirmed, m.Confirmed)
			assert.True(t, m.Quitting)
		})
	}

	m := &confirmModel{Question: "Install?", Default: true}
	assert.Contains(t, m.View(), "(Y/n)")
	m.Update(keys("x"))
	assert.False(t, m.Quitting)
}

func TestPresenter(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	p := NewPresenter(&out, &errOut)

	p.Notify(challenges.Event{Type: challenges.EventCatalogEmpty})
	assert.Contains(t, out.String(), "No challenges found in the repository.")

	out.Reset()
	p.Notify(challenges.Event{
		Type:           challenges.EventCompleted,
		Destination:    "/tmp/out/foo",
		PackageManager: installer.Yarn,
	})
	assert.Contains(t, out.String(), "Challenge setup complete!")
	assert.Contains(t, out.String(), "Challenge location: /tmp/out/foo")
	assert.Contains(t, out.String(), "`yarn install`")

	out.Reset()
	p.Notify(challenges.Event{Type: challenges.EventCompleted, Destination: "/tmp/out/foo", Installed: true})
	assert.Contains(t, out.String(), "Dependencies installed and ready to go!")

	out.Reset()
	p.Notify(challenges.Event{Type: challenges.EventCopyFailed, Err: errors.New("boom")})
	assert.Empty(t, out.String())

	p.Failure(challenges.Description{Message: challenges.MessageSetupFailed, Detail: "copy failed"})
	assert.Contains(t, errOut.String(), "Failed to setup challenge")
	assert.Contains(t, errOut.String(), "copy failed")
}

func TestRenderChallengesTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderChallengesTable(&buf, sampleChallenges(2)))
	assert.Contains(t, buf.String(), "challenges/c00")
	assert.Contains(t, buf.String(), "c01")

	buf.Reset()
	require.NoError(t, RenderChallengesTable(&buf, nil))
	assert.Equal(t, "No challenges found in the repository.\n", buf.String())
}
