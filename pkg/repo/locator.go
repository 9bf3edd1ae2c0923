// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package repo turns a challenges repository URL into the coordinates used to
// build API and clone URLs.
package repo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stacklok/valor/pkg/errors"
)

// GitHubHost is the only forge the catalog knows how to query.
const GitHubHost = "github.com"

// urlPattern matches host/owner/repo[.git] with either '/' or ':' between host
// and owner, so that both HTTPS and SSH-style URLs are accepted. Anything after
// the repository segment (e.g. /tree/main) is ignored.
var urlPattern = regexp.MustCompile(
	`^(?:[a-zA-Z][a-zA-Z0-9+.-]*://)?(?:[^@/\s]+@)?([^/:@\s]+)(?::\d+)?[/:]([^/\s]+)/([^/\s]+?)(?:\.git)?(?:/[^\s]*)?$`,
)

// Info holds the coordinates of a repository.
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Branch string
}

// Parse extracts host, owner and repository name from repoURL.
// The returned Info has no branch.
func Parse(repoURL string) (Info, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(repoURL))
	if m == nil {
		return Info{}, errors.NewInvalidRepositoryURLError(repoURL)
	}

	host, owner, name := strings.ToLower(m[1]), m[2], m[3]
	switch name {
	case ".", "..", ".git":
		return Info{}, errors.NewInvalidRepositoryURLError(repoURL)
	}

	return Info{Host: host, Owner: owner, Repo: name}, nil
}

// Locate parses repoURL and pairs it with branch.
func Locate(repoURL, branch string) (Info, error) {
	info, err := Parse(repoURL)
	if err != nil {
		return Info{}, err
	}
	info.Branch = branch
	return info, nil
}

// IsGitHub reports whether the repository is hosted on github.com.
func (i Info) IsGitHub() bool {
	return i.Host == GitHubHost || i.Host == "www."+GitHubHost
}

// FullName returns owner/repo.
func (i Info) FullName() string {
	return i.Owner + "/" + i.Repo
}

// RawFileURL returns the URL serving the raw content of filePath at the
// repository branch, e.g. https://raw.githubusercontent.com/owner/repo/main/README.md.
func (i Info) RawFileURL(rawBase, filePath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimRight(rawBase, "/"), i.Owner, i.Repo, i.Branch, strings.TrimLeft(filePath, "/"))
}
