// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/stacklok/valor/pkg/process"
)

// Backend names accepted by NewFetcher.
const (
	BackendCLI   = "git"
	BackendGoGit = "go-git"
)

// RemoteName is the name under which the challenges repository is registered.
const RemoteName = "origin"

// FetchRequest describes one sub-tree retrieval.
type FetchRequest struct {
	// URL is the clone URL of the repository
	URL string
	// Branch is the branch to pull
	Branch string
	// Path is the repository-relative sub-tree, e.g. "challenges/foo"
	Path string
	// Dir is the empty workspace directory that receives the working copy
	Dir string
	// Depth is the number of commits to fetch; 0 fetches the full history
	Depth int
	// Sparse restricts the checkout to Path; false clones the whole branch
	Sparse bool
}

// Validate checks that the request is complete.
func (r FetchRequest) Validate() error {
	var missing []string
	if r.URL == "" {
		missing = append(missing, "url")
	}
	if r.Branch == "" {
		missing = append(missing, "branch")
	}
	if r.Dir == "" {
		missing = append(missing, "dir")
	}
	if r.Sparse && cleanPath(r.Path) == "" {
		missing = append(missing, "path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete fetch request, missing: %s", strings.Join(missing, ", "))
	}
	if r.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", r.Depth)
	}
	return nil
}

// SparsePattern returns the sparse-checkout pattern selecting Path.
func (r FetchRequest) SparsePattern() string {
	return cleanPath(r.Path) + "/*"
}

// Fetcher retrieves a repository sub-tree into a workspace.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) error
}

// NewFetcher returns the Fetcher for backend. The CLI backend runs git
// through runner.
func NewFetcher(backend string, runner process.Runner) (Fetcher, error) {
	switch backend {
	case BackendCLI, "":
		return NewCLIFetcher(runner), nil
	case BackendGoGit:
		return NewGoGitFetcher(), nil
	default:
		return nil, fmt.Errorf("unknown fetch backend %q, expected %q or %q", backend, BackendCLI, BackendGoGit)
	}
}

// cleanPath normalizes a repository-relative path to slash form without
// leading or trailing separators. "." and "/" become "".
func cleanPath(p string) string {
	return strings.Trim(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
}
