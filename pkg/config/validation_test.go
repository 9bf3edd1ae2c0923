// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/valor/pkg/installer"
)

func validConfig() Config {
	cfg := Default()
	cfg.RepoURL = "https://github.com/acme/demo.git"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "ssh url", mutate: func(c *Config) { c.RepoURL = "git@github.com:acme/demo.git" }},
		{
			name:    "invalid url",
			mutate:  func(c *Config) { c.RepoURL = "not a url" },
			wantErr: []string{"invalid repository URL"},
		},
		{
			name:    "bad backend",
			mutate:  func(c *Config) { c.FetchBackend = "svn" },
			wantErr: []string{`fetch_backend must be "git" or "go-git"`},
		},
		{
			name: "several problems at once",
			mutate: func(c *Config) {
				c.Branch = ""
				c.ChallengesDir = "/"
				c.CloneDepth = -1
				c.CommandTimeout = -time.Second
				c.PackageManagers = []string{"bun"}
				c.GitHub.APIBase = "ftp://example.com"
			},
			wantErr: []string{
				"branch must not be empty",
				"challenges_dir must not be empty",
				"clone_depth must be >= 0",
				"command_timeout must be >= 0",
				`unsupported package manager "bun"`,
				"github.api_base: URL must start with http:// or https://",
			},
		},
		{
			name:    "missing ca certificate",
			mutate:  func(c *Config) { c.CACertificatePath = "/nonexistent/ca.pem" },
			wantErr: []string{"CA certificate file not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_ValidateMissingRepoURL(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.RepoURL = " "
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrMissingRepoURL))
}

func TestConfig_ValidateCACertificate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.pem")
	writeFile(t, garbage, "not a certificate")
	cfg := validConfig()
	cfg.CACertificatePath = garbage
	assert.ErrorContains(t, cfg.Validate(), "no PEM certificates found")

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	valid := filepath.Join(dir, "ca.pem")
	writeFile(t, valid, string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})))
	cfg.CACertificatePath = valid
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Helpers(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	info, err := cfg.Repository()
	require.NoError(t, err)
	assert.Equal(t, "acme", info.Owner)
	assert.Equal(t, "main", info.Branch)

	assert.Equal(t, []string{"node_modules"}, cfg.Exclusions())
	cfg.Features.FilterNodeModules = false
	assert.Nil(t, cfg.Exclusions())

	prefs, err := cfg.PackageManagerPreference()
	require.NoError(t, err)
	assert.Equal(t, installer.DefaultPreference, prefs)
}
