// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"crypto/x509"
	"errors"
	"fmt"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/stacklok/valor/pkg/git"
	"github.com/stacklok/valor/pkg/repo"
)

// Validate reports every problem found in the configuration at once.
// A missing repository URL is reported as ErrMissingRepoURL.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.RepoURL) == "" {
		errs = append(errs, ErrMissingRepoURL)
	} else if _, err := repo.Parse(c.RepoURL); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Branch) == "" {
		errs = append(errs, errors.New("branch must not be empty"))
	}
	if strings.Trim(c.ChallengesDir, "/ ") == "" {
		errs = append(errs, errors.New("challenges_dir must not be empty"))
	}
	if c.CloneDepth < 0 {
		errs = append(errs, fmt.Errorf("clone_depth must be >= 0, got %d", c.CloneDepth))
	}
	if c.CommandTimeout < 0 {
		errs = append(errs, fmt.Errorf("command_timeout must be >= 0, got %s", c.CommandTimeout))
	}
	switch c.FetchBackend {
	case git.BackendCLI, git.BackendGoGit:
	default:
		errs = append(errs, fmt.Errorf("fetch_backend must be %q or %q, got %q",
			git.BackendCLI, git.BackendGoGit, c.FetchBackend))
	}
	if _, err := c.PackageManagerPreference(); err != nil {
		errs = append(errs, err)
	}
	for key, value := range map[string]string{
		"github.api_base": c.GitHub.APIBase,
		"github.raw_base": c.GitHub.RawBase,
	} {
		if _, err := validateURLScheme(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if c.CACertificatePath != "" {
		if err := validateCACertificate(c.CACertificatePath); err != nil {
			errs = append(errs, fmt.Errorf("ca_certificate_path: %w", err))
		}
	}

	return errors.Join(errs...)
}

// validateURLScheme validates that a URL is absolute and uses http or https.
func validateURLScheme(rawURL string) (*neturl.URL, error) {
	parsedURL, err := neturl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", rawURL)
	}
	return parsedURL, nil
}

// validateCACertificate checks that path holds at least one PEM certificate.
func validateCACertificate(path string) error {
	// #nosec G304: path is chosen by the user
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("CA certificate file not found or not accessible: %w", err)
	}
	if !x509.NewCertPool().AppendCertsFromPEM(content) {
		return errors.New("invalid CA certificate: no PEM certificates found")
	}
	return nil
}
