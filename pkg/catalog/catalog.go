// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package catalog lists the challenges available in a repository.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/logger"
	"github.com/stacklok/valor/pkg/networking"
	"github.com/stacklok/valor/pkg/repo"
)

// DefaultAPIBase is the public GitHub REST API endpoint.
const DefaultAPIBase = "https://api.github.com"

const (
	entryTypeDir = "dir"
	apiVersion   = "2022-11-28"
)

// Challenge is a self-contained template project stored as one directory of
// the challenges repository.
type Challenge struct {
	// Name is the directory name, e.g. "rspack-mf-react"
	Name string `json:"name"`
	// Path is the repository-relative location, e.g. "challenges/rspack-mf-react"
	Path string `json:"path"`
	// Description is a short human readable summary
	Description string `json:"description,omitempty"`
}

// contentEntry is one item of the GitHub "repository contents" response.
type contentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url,omitempty"`
}

// GitHubCatalog lists challenges through the GitHub contents API.
type GitHubCatalog struct {
	client  networking.HTTPClient
	apiBase string
}

// NewGitHubCatalog creates a catalog that queries apiBase with client.
// An empty apiBase selects DefaultAPIBase.
func NewGitHubCatalog(client networking.HTTPClient, apiBase string) *GitHubCatalog {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &GitHubCatalog{
		client:  client,
		apiBase: strings.TrimRight(apiBase, "/"),
	}
}

// List returns the challenges found in dir at the repository branch, in the
// order reported by the API. Only directories are challenges; files are
// skipped. An empty directory yields an empty slice.
func (c *GitHubCatalog) List(ctx context.Context, info repo.Info, dir string) ([]Challenge, error) {
	if !info.IsGitHub() {
		return nil, errors.NewUnsupportedHostError(info.Host)
	}

	dir = strings.Trim(dir, "/")
	requestURL := c.contentsURL(info, dir)
	logger.Debugw("listing challenges", "url", requestURL)

	result, err := networking.FetchJSON[[]contentEntry](ctx, c.client, requestURL,
		networking.WithHeader("Accept", "application/vnd.github+json"),
		networking.WithHeader("X-GitHub-Api-Version", apiVersion),
	)
	if err != nil {
		return nil, classify(err, dir)
	}

	challenges := make([]Challenge, 0, len(result.Data))
	for _, item := range result.Data {
		if item.Type != entryTypeDir {
			continue
		}
		challenges = append(challenges, Challenge{
			Name:        item.Name,
			Path:        dir + "/" + item.Name,
			Description: "Challenge: " + item.Name,
		})
	}

	return challenges, nil
}

func (c *GitHubCatalog) contentsURL(info repo.Info, dir string) string {
	segments := strings.Split(dir, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.apiBase,
		url.PathEscape(info.Owner),
		url.PathEscape(info.Repo),
		strings.Join(segments, "/"),
		url.QueryEscape(info.Branch),
	)
}

func classify(err error, dir string) error {
	switch {
	case networking.IsHTTPError(err, http.StatusNotFound):
		return errors.NewCatalogNotFoundError(
			fmt.Sprintf("challenges directory '%s' not found in repository", dir), err)
	case networking.IsHTTPError(err, http.StatusForbidden):
		return errors.NewCatalogAccessDeniedError("access to the repository contents was denied", err)
	}

	return errors.NewCatalogTransportError(
		"failed to fetch challenges from GitHub API", networking.StatusCode(err), err)
}
