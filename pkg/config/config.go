// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config contains the definition of the application config structure
// and the logic required to load it from defaults, a config file, the
// environment and command-line flags.
package config

import (
	"time"

	"github.com/stacklok/valor/pkg/installer"
	"github.com/stacklok/valor/pkg/repo"
)

// DefaultRepoURL is the challenges repository compiled into the binary.
// It is set at build time with
//
//	-ldflags "-X github.com/stacklok/valor/pkg/config.DefaultRepoURL=https://github.com/org/repo.git"
var DefaultRepoURL = ""

// Defaults
const (
	DefaultBranch        = "main"
	DefaultChallengesDir = "challenges"
	DefaultTempDirPrefix = "valor-challenges-"
	DefaultCloneDepth    = 1
	DefaultAPIBase       = "https://api.github.com"
	DefaultRawBase       = "https://raw.githubusercontent.com"
	DefaultFetchBackend  = "git"
)

// Config represents the configuration of the application.
type Config struct {
	RepoURL           string        `yaml:"repo_url" mapstructure:"repo_url"`
	Branch            string        `yaml:"branch" mapstructure:"branch"`
	ChallengesDir     string        `yaml:"challenges_dir" mapstructure:"challenges_dir"`
	TempDirPrefix     string        `yaml:"temp_dir_prefix" mapstructure:"temp_dir_prefix"`
	CloneDepth        int           `yaml:"clone_depth" mapstructure:"clone_depth"`
	GitHub            GitHub        `yaml:"github" mapstructure:"github"`
	Features          Features      `yaml:"features" mapstructure:"features"`
	ExcludeNames      []string      `yaml:"exclude_names" mapstructure:"exclude_names"`
	FetchBackend      string        `yaml:"fetch_backend" mapstructure:"fetch_backend"`
	PackageManagers   []string      `yaml:"package_managers" mapstructure:"package_managers"`
	CommandTimeout    time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`
	CACertificatePath string        `yaml:"ca_certificate_path,omitempty" mapstructure:"ca_certificate_path"`

	// source is the config file that was read, if any
	source string
}

// GitHub contains the forge endpoints.
type GitHub struct {
	APIBase string `yaml:"api_base" mapstructure:"api_base"`
	RawBase string `yaml:"raw_base" mapstructure:"raw_base"`
}

// Features contains the feature flags.
type Features struct {
	UseSparseCheckout bool `yaml:"use_sparse_checkout" mapstructure:"use_sparse_checkout"`
	FilterNodeModules bool `yaml:"filter_node_modules" mapstructure:"filter_node_modules"`
	InitGitRepository bool `yaml:"init_git_repository" mapstructure:"init_git_repository"`
}

// Default returns a config holding the built-in defaults.
func Default() Config {
	return Config{
		RepoURL:       DefaultRepoURL,
		Branch:        DefaultBranch,
		ChallengesDir: DefaultChallengesDir,
		TempDirPrefix: DefaultTempDirPrefix,
		CloneDepth:    DefaultCloneDepth,
		GitHub: GitHub{
			APIBase: DefaultAPIBase,
			RawBase: DefaultRawBase,
		},
		Features: Features{
			UseSparseCheckout: true,
			FilterNodeModules: true,
		},
		ExcludeNames:    []string{"node_modules"},
		FetchBackend:    DefaultFetchBackend,
		PackageManagers: []string{"pnpm", "yarn", "npm"},
	}
}

// Source returns the config file the values were read from, or "" when
// none was found.
func (c *Config) Source() string {
	return c.source
}

// Repository locates the configured challenges repository.
func (c *Config) Repository() (repo.Info, error) {
	return repo.Locate(c.RepoURL, c.Branch)
}

// Exclusions returns the names to skip while copying, or nil when filtering
// is disabled.
func (c *Config) Exclusions() []string {
	if !c.Features.FilterNodeModules {
		return nil
	}
	return c.ExcludeNames
}

// PackageManagerPreference returns the validated probe order.
func (c *Config) PackageManagerPreference() ([]installer.PackageManager, error) {
	return installer.ParsePreference(c.PackageManagers)
}
