// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package workspace manages the scratch directories that hold a challenge
// between fetching it and copying it to its destination.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stacklok/valor/pkg/logger"
)

// DefaultPrefix is the name prefix of every workspace directory.
const DefaultPrefix = "valor-challenges-"

// Manager creates and removes workspaces under a root directory.
type Manager struct {
	prefix string
	root   string
}

// NewManager creates a Manager. An empty prefix selects DefaultPrefix and an
// empty root selects the system temporary directory.
func NewManager(prefix, root string) *Manager {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Manager{prefix: prefix, root: root}
}

// Acquire creates a fresh, empty, uniquely named directory. Concurrent
// callers always receive distinct paths.
func (m *Manager) Acquire() (string, error) {
	dir, err := os.MkdirTemp(m.root, m.prefix)
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	// resolve symlinked temp roots (macOS /var -> /private/var) so that
	// later path comparisons see the same location git reports
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	logger.Debugw("acquired workspace", "path", dir)
	return dir, nil
}

// Release removes dir and everything under it. Failures are logged and
// never returned; releasing an already removed workspace is a no-op.
func (m *Manager) Release(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warnw("failed to remove workspace", "path", dir, "error", err)
		return
	}
	logger.Debugw("released workspace", "path", dir)
}

// With acquires a workspace, runs fn inside it and releases it afterwards,
// whether fn returns an error, succeeds or panics.
func (m *Manager) With(fn func(dir string) error) error {
	dir, err := m.Acquire()
	if err != nil {
		return err
	}
	defer m.Release(dir)

	return fn(dir)
}
