// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points the loader at paths that do not exist and clears the
// variables a developer machine might carry.
func isolate(t *testing.T) LoadOptions {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{
		RepoURLEnvVar, "VALOR_REPO_URL", "VALOR_BRANCH", "VALOR_CLONE_DEPTH",
		"VALOR_FEATURES_USE_SPARSE_CHECKOUT", "VALOR_PACKAGE_MANAGERS", "VALOR_FETCH_BACKEND",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	original := configSearcher
	configSearcher = func() (string, error) { return "", os.ErrNotExist }
	t.Cleanup(func() { configSearcher = original })

	return LoadOptions{DotEnvPath: filepath.Join(dir, ".env")}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)

	want := Default()
	want.source = ""
	assert.Equal(t, &want, cfg)
	assert.Empty(t, cfg.Source())
}

func TestLoad_ConfigFile(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, opts.ConfigPath, `
repo_url: https://github.com/acme/demo.git
branch: develop
clone_depth: 3
features:
  use_sparse_checkout: false
package_managers: [npm]
command_timeout: 90s
`)

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/acme/demo.git", cfg.RepoURL)
	assert.Equal(t, "develop", cfg.Branch)
	assert.Equal(t, 3, cfg.CloneDepth)
	assert.False(t, cfg.Features.UseSparseCheckout)
	// untouched nested keys keep their defaults
	assert.True(t, cfg.Features.FilterNodeModules)
	assert.Equal(t, []string{"npm"}, cfg.PackageManagers)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout)
	assert.Equal(t, DefaultChallengesDir, cfg.ChallengesDir)
	assert.Equal(t, opts.ConfigPath, cfg.Source())
}

func TestLoad_SearchedConfigFile(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "branch: from-xdg\n")
	configSearcher = func() (string, error) { return path, nil }

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "from-xdg", cfg.Branch)
}

func TestLoad_ExplicitConfigFileMustExist(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	opts.ConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(viper.New(), opts)
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_InvalidConfigFile(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, opts.ConfigPath, "branch: [unterminated\n")

	_, err := Load(viper.New(), opts)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, opts.ConfigPath, "repo_url: https://github.com/file/repo.git\nbranch: file\n")

	t.Setenv(RepoURLEnvVar, "https://github.com/env/repo.git")
	t.Setenv("VALOR_BRANCH", "env")
	t.Setenv("VALOR_FEATURES_USE_SPARSE_CHECKOUT", "false")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/env/repo.git", cfg.RepoURL)
	assert.Equal(t, "env", cfg.Branch)
	assert.False(t, cfg.Features.UseSparseCheckout)
}

func TestLoad_ShortRepoURLVariable(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	t.Setenv("VALOR_REPO_URL", "git@github.com:acme/demo.git")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:acme/demo.git", cfg.RepoURL)
}

func TestLoad_DotEnv(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	writeFile(t, opts.DotEnvPath, RepoURLEnvVar+"=https://github.com/dotenv/repo.git\nVALOR_BRANCH=dotenv\n")
	t.Cleanup(func() {
		_ = os.Unsetenv(RepoURLEnvVar)
		_ = os.Unsetenv("VALOR_BRANCH")
	})
	// already exported variables win over .env
	t.Setenv("VALOR_BRANCH", "exported")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/dotenv/repo.git", cfg.RepoURL)
	assert.Equal(t, "exported", cfg.Branch)
}

func TestLoad_FlagsWin(t *testing.T) { //nolint:paralleltest // mutates environment
	opts := isolate(t)
	t.Setenv("VALOR_BRANCH", "env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("branch", "", "")
	flags.String("backend", "", "")
	require.NoError(t, flags.Parse([]string{"--branch", "flag"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("branch", flags.Lookup("branch")))
	require.NoError(t, v.BindPFlag("fetch_backend", flags.Lookup("backend")))

	cfg, err := Load(v, opts)
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.Branch)
	// unset flags do not shadow lower layers
	assert.Equal(t, DefaultFetchBackend, cfg.FetchBackend)
}

func TestConfig_Marshal(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.RepoURL = "https://github.com/acme/demo.git"
	cfg.CommandTimeout = 2 * time.Minute

	out, err := cfg.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "https://github.com/acme/demo.git", decoded["repo_url"])
	assert.Equal(t, "2m0s", decoded["command_timeout"])
	assert.NotContains(t, decoded, "ca_certificate_path")
}
