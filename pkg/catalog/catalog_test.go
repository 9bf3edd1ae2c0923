// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/repo"
)

func acmeDemo(t *testing.T) repo.Info {
	t.Helper()
	info, err := repo.Locate("https://github.com/acme/demo.git", "main")
	require.NoError(t, err)
	return info
}

func newContentsServer(t *testing.T, status int, entries []contentEntry) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/repos/acme/demo/contents/challenges", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, `{"message":"%s"}`, http.StatusText(status))
			return
		}
		_ = json.NewEncoder(w).Encode(entries)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestGitHubCatalog_List_ReturnsDirectoriesInRemoteOrder(t *testing.T) {
	t.Parallel()

	server, hits := newContentsServer(t, http.StatusOK, []contentEntry{
		{Name: "foo", Path: "challenges/foo", Type: "dir"},
		{Name: "README.md", Path: "challenges/README.md", Type: "file"},
		{Name: "bar", Path: "challenges/bar", Type: "dir"},
	})

	cat := NewGitHubCatalog(server.Client(), server.URL)
	challenges, err := cat.List(context.Background(), acmeDemo(t), "challenges")
	require.NoError(t, err)

	assert.Equal(t, []Challenge{
		{Name: "foo", Path: "challenges/foo", Description: "Challenge: foo"},
		{Name: "bar", Path: "challenges/bar", Description: "Challenge: bar"},
	}, challenges)
	assert.EqualValues(t, 1, hits.Load())
}

func TestGitHubCatalog_List_NeverReturnsFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files int
		dirs  int
	}{
		{"only files", 5, 0},
		{"mostly files", 10, 1},
		{"mixed", 3, 3},
		{"only dirs", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var entries []contentEntry
			for i := 0; i < tt.files; i++ {
				entries = append(entries, contentEntry{Name: fmt.Sprintf("file-%d.md", i), Type: "file"})
			}
			for i := 0; i < tt.dirs; i++ {
				entries = append(entries, contentEntry{Name: fmt.Sprintf("dir-%d", i), Type: "dir"})
			}
			server, _ := newContentsServer(t, http.StatusOK, entries)

			challenges, err := NewGitHubCatalog(server.Client(), server.URL).
				List(context.Background(), acmeDemo(t), "challenges")
			require.NoError(t, err)

			assert.Len(t, challenges, tt.dirs)
			for _, c := range challenges {
				assert.Contains(t, c.Name, "dir-")
			}
		})
	}
}

func TestGitHubCatalog_List_EmptyDirectory(t *testing.T) {
	t.Parallel()

	server, _ := newContentsServer(t, http.StatusOK, []contentEntry{})

	challenges, err := NewGitHubCatalog(server.Client(), server.URL).
		List(context.Background(), acmeDemo(t), "/challenges/")
	require.NoError(t, err)
	assert.NotNil(t, challenges)
	assert.Empty(t, challenges)
}

func TestGitHubCatalog_List_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		wantKind   errors.Kind
		wantStatus int
	}{
		{"not found", http.StatusNotFound, errors.KindCatalogNotFound, http.StatusNotFound},
		{"forbidden", http.StatusForbidden, errors.KindCatalogAccessDenied, http.StatusForbidden},
		{"server error", http.StatusInternalServerError, errors.KindCatalogTransport, http.StatusInternalServerError},
		{"unauthorized", http.StatusUnauthorized, errors.KindCatalogTransport, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newContentsServer(t, tt.status, nil)

			_, err := NewGitHubCatalog(server.Client(), server.URL).
				List(context.Background(), acmeDemo(t), "challenges")
			require.Error(t, err)

			e, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantStatus, e.StatusCode)
		})
	}
}

func TestGitHubCatalog_List_ParseFailureIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// the contents API answers with an object when the path is a file
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"challenges","type":"file"}`))
	}))
	defer server.Close()

	_, err := NewGitHubCatalog(server.Client(), server.URL).
		List(context.Background(), acmeDemo(t), "challenges")
	require.Error(t, err)
	assert.True(t, errors.IsCatalogTransport(err))
}

func TestGitHubCatalog_List_ConnectionFailureIsTransportError(t *testing.T) {
	t.Parallel()

	_, err := NewGitHubCatalog(http.DefaultClient, "http://localhost:1").
		List(context.Background(), acmeDemo(t), "challenges")
	require.Error(t, err)

	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindCatalogTransport, e.Kind)
	assert.Zero(t, e.StatusCode)
}

func TestGitHubCatalog_List_UnsupportedHostMakesNoRequest(t *testing.T) {
	t.Parallel()

	server, hits := newContentsServer(t, http.StatusOK, nil)

	info, err := repo.Locate("https://gitlab.com/acme/demo.git", "main")
	require.NoError(t, err)

	_, err = NewGitHubCatalog(server.Client(), server.URL).List(context.Background(), info, "challenges")
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedHost(err))
	assert.Zero(t, hits.Load())
}

func TestNewGitHubCatalog_DefaultsAPIBase(t *testing.T) {
	t.Parallel()

	c := NewGitHubCatalog(http.DefaultClient, "")
	assert.Equal(t, DefaultAPIBase, c.apiBase)

	c = NewGitHubCatalog(http.DefaultClient, "https://ghe.example.com/api/v3/")
	assert.Equal(t, "https://ghe.example.com/api/v3", c.apiBase)
}

func TestGitHubCatalog_ContentsURL_EscapesSegments(t *testing.T) {
	t.Parallel()

	c := NewGitHubCatalog(http.DefaultClient, "https://api.github.com")
	info := repo.Info{Host: repo.GitHubHost, Owner: "acme", Repo: "demo", Branch: "feature/x"}

	assert.Equal(t,
		"https://api.github.com/repos/acme/demo/contents/my%20challenges/web?ref=feature%2Fx",
		c.contentsURL(info, "my challenges/web"))
}
