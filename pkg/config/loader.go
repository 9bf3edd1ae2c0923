// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/valor/pkg/logger"
)

// EnvPrefix prefixes every environment variable read by the loader,
// e.g. VALOR_BRANCH or VALOR_FEATURES_USE_SPARSE_CHECKOUT.
const EnvPrefix = "VALOR"

// RepoURLEnvVar is the historical name of the repository variable. It wins
// over VALOR_REPO_URL when both are set.
const RepoURLEnvVar = "VALOR_CHALLENGES_REPO_URL"

// DefaultDotEnvFile is read from the working directory when present.
const DefaultDotEnvFile = ".env"

const configFileName = "valor/config.yaml"

// configSearcher locates the config file, can be replaced in tests
var configSearcher = func() (string, error) {
	return xdg.SearchConfigFile(configFileName)
}

// DefaultConfigPath returns where the config file is expected to live.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(configFileName)
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigPath is an explicit config file; it must exist when set
	ConfigPath string
	// DotEnvPath is the .env file; empty selects DefaultDotEnvFile
	DotEnvPath string
}

// Load builds the effective configuration. Values are layered from lowest to
// highest precedence: built-in defaults, the config file, the .env file and
// process environment, and finally any flags already bound into v.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	setDefaults(v, Default())

	if err := loadDotEnv(opts.DotEnvPath); err != nil {
		return nil, err
	}
	bindEnv(v)

	path, err := findConfigFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		values, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
		logger.Debugw("loaded config file", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.source = path
	return &cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("repo_url", d.RepoURL)
	v.SetDefault("branch", d.Branch)
	v.SetDefault("challenges_dir", d.ChallengesDir)
	v.SetDefault("temp_dir_prefix", d.TempDirPrefix)
	v.SetDefault("clone_depth", d.CloneDepth)
	v.SetDefault("github.api_base", d.GitHub.APIBase)
	v.SetDefault("github.raw_base", d.GitHub.RawBase)
	v.SetDefault("features.use_sparse_checkout", d.Features.UseSparseCheckout)
	v.SetDefault("features.filter_node_modules", d.Features.FilterNodeModules)
	v.SetDefault("features.init_git_repository", d.Features.InitGitRepository)
	v.SetDefault("exclude_names", d.ExcludeNames)
	v.SetDefault("fetch_backend", d.FetchBackend)
	v.SetDefault("package_managers", d.PackageManagers)
	v.SetDefault("command_timeout", d.CommandTimeout)
	v.SetDefault("ca_certificate_path", d.CACertificatePath)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BindEnv only fails when no key is given
	_ = v.BindEnv("repo_url", RepoURLEnvVar, EnvPrefix+"_REPO_URL")
}

// loadDotEnv exports the variables of the .env file that are not already
// set in the environment.
func loadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debugw("loaded environment file", "path", path)
	return nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		path := filepath.Clean(explicit)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found or not accessible: %w", err)
		}
		return path, nil
	}
	path, err := configSearcher()
	if err != nil {
		// no config file is fine
		return "", nil
	}
	return path, nil
}

func readConfigFile(path string) (map[string]any, error) {
	// #nosec G304: path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

// ErrMissingRepoURL is returned when no challenges repository is configured.
var ErrMissingRepoURL = errors.New("challenges repository URL is not configured: set " +
	RepoURLEnvVar + ", repo_url in the config file, or --repo-url")
