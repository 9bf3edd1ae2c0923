// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package materialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/valor/pkg/errors"
)

func writeFiles(t *testing.T, fs billy.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func exists(fs billy.Filesystem, name string) bool {
	_, err := fs.Lstat(name)
	return err == nil
}

func TestCopier_CopiesFullSubtree(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"/ws/challenges/foo/package.json":    `{"name":"foo"}`,
		"/ws/challenges/foo/src/index.js":    "index",
		"/ws/challenges/foo/src/lib/util.js": "util",
		"/ws/challenges/bar/package.json":    `{"name":"bar"}`,
		"/ws/challenges/foo/.gitignore":      "dist",
	})

	err := NewCopier(fs, fs).Copy("/ws/challenges/foo", "/out/foo", Options{})
	require.NoError(t, err)

	assert.Equal(t, `{"name":"foo"}`, readFile(t, fs, "/out/foo/package.json"))
	assert.Equal(t, "index", readFile(t, fs, "/out/foo/src/index.js"))
	assert.Equal(t, "util", readFile(t, fs, "/out/foo/src/lib/util.js"))
	assert.Equal(t, "dist", readFile(t, fs, "/out/foo/.gitignore"))
	assert.False(t, exists(fs, "/out/bar"))
}

func TestCopier_NoOverwriteNeverDeletes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing map[string]string
	}{
		{"destination with files", map[string]string{"/out/foo/keep.txt": "mine", "/out/foo/nested/a": "a"}},
		{"destination with same names", map[string]string{"/out/foo/package.json": "old"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := memfs.New()
			writeFiles(t, fs, map[string]string{"/ws/challenges/foo/package.json": "new"})
			writeFiles(t, fs, tt.existing)

			err := NewCopier(fs, fs).Copy("/ws/challenges/foo", "/out/foo", Options{Overwrite: false})
			require.Error(t, err)
			assert.True(t, errors.IsDestinationExists(err))

			e, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, "/out/foo", e.Path)

			for name, content := range tt.existing {
				assert.Equal(t, content, readFile(t, fs, name))
			}
		})
	}
}

func TestCopier_OverwriteReplacesDestination(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"/ws/challenges/foo/package.json": "new",
		"/out/foo/package.json":           "old",
		"/out/foo/stale.txt":              "stale",
	})

	err := NewCopier(fs, fs).Copy("/ws/challenges/foo", "/out/foo", Options{Overwrite: true})
	require.NoError(t, err)

	assert.Equal(t, "new", readFile(t, fs, "/out/foo/package.json"))
	assert.False(t, exists(fs, "/out/foo/stale.txt"))
}

func TestCopier_ExcludesNamedSegments(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"/ws/c/package.json":                         "{}",
		"/ws/c/node_modules/react/index.js":          "react",
		"/ws/c/packages/app/node_modules/x/index.js": "x",
		"/ws/c/packages/app/src/main.js":             "main",
		"/ws/c/node_modules_backup/readme":           "not excluded",
	})

	err := NewCopier(fs, fs).Copy("/ws/c", "/out/c", Options{Exclude: DefaultExclude})
	require.NoError(t, err)

	assert.True(t, exists(fs, "/out/c/package.json"))
	assert.True(t, exists(fs, "/out/c/packages/app/src/main.js"))
	assert.True(t, exists(fs, "/out/c/node_modules_backup/readme"))
	assert.False(t, exists(fs, "/out/c/node_modules"))
	assert.False(t, exists(fs, "/out/c/packages/app/node_modules"))
}

func TestCopier_WithoutExclusionCopiesEverything(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	writeFiles(t, fs, map[string]string{
		"/ws/c/node_modules/react/index.js": "react",
	})

	require.NoError(t, NewCopier(fs, fs).Copy("/ws/c", "/out/c", Options{}))
	assert.True(t, exists(fs, "/out/c/node_modules/react/index.js"))
}

func TestCopier_MissingOrEmptySource(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/ws/challenges/empty", 0o755))
	writeFiles(t, fs, map[string]string{"/ws/challenges/file": "x"})

	for _, src := range []string{"/ws/challenges/missing", "/ws/challenges/empty", "/ws/challenges/file"} {
		err := NewCopier(fs, fs).Copy(src, "/out/x", Options{Overwrite: true})
		require.Error(t, err, src)
		assert.True(t, errors.IsCopyFailed(err), src)
		assert.False(t, exists(fs, "/out/x"), src)
	}
}

func TestCopier_CopiesSymlinks(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	writeFiles(t, fs, map[string]string{"/ws/c/target.txt": "t"})
	require.NoError(t, fs.Symlink("target.txt", "/ws/c/link.txt"))

	require.NoError(t, NewCopier(fs, fs).Copy("/ws/c", "/out/c", Options{}))

	target, err := fs.Readlink("/out/c/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)
}

func TestOSCopier_HostFilesystem(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "ws", "challenges", "foo")
	dst := filepath.Join(root, "out", "foo")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "run.sh"), []byte("#!/bin/sh"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "index.js"), []byte("i"), 0o644))

	require.NoError(t, NewOSCopier().Copy(src, dst, Options{}))

	assert.FileExists(t, filepath.Join(dst, "package.json"))
	assert.FileExists(t, filepath.Join(dst, "src", "index.js"))

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)

	err = NewOSCopier().Copy(src, dst, Options{})
	assert.True(t, errors.IsDestinationExists(err))
}

func TestExcluded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{"node_modules", true},
		{"a/node_modules/b", true},
		{"a/b/node_modules", true},
		{"a/node_modules_x", false},
		{"src/index.js", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Excluded(tt.rel, []string{"node_modules", " "}), tt.rel)
	}
	assert.False(t, Excluded("node_modules", nil))
}
