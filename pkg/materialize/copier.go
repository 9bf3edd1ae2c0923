// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package materialize copies a fetched challenge out of its workspace.
//
// Copies are not atomic: a failure part way through leaves whatever was
// already written at the destination.
package materialize

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/logger"
)

// DefaultExclude lists the names skipped when dependency filtering is enabled.
var DefaultExclude = []string{"node_modules"}

// Options controls a single copy.
type Options struct {
	// Overwrite replaces an existing destination instead of failing
	Overwrite bool
	// Exclude holds entry names that are skipped wherever they appear;
	// excluded directories are not descended into
	Exclude []string
}

// Copier copies directory trees between two filesystems.
type Copier struct {
	src billy.Filesystem
	dst billy.Filesystem
}

// NewCopier creates a Copier reading from src and writing to dst.
func NewCopier(src, dst billy.Filesystem) *Copier {
	return &Copier{src: src, dst: dst}
}

// NewOSCopier creates a Copier over the host filesystem. Paths passed to
// Copy are absolute host paths.
func NewOSCopier() *Copier {
	fs := osfs.New("/")
	return NewCopier(fs, fs)
}

// Copy copies the tree at srcDir to dstDir.
//
// A missing or empty source fails with errors.KindCopyFailed. An existing
// destination fails with errors.KindDestinationExists unless opts.Overwrite
// is set, in which case it is removed first.
func (c *Copier) Copy(srcDir, dstDir string, opts Options) error {
	info, err := c.src.Stat(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewCopyFailedError(srcDir,
				fmt.Sprintf("challenge source %s was not found in the fetched repository", srcDir), err)
		}
		return errors.NewCopyFailedError(srcDir, "failed to inspect challenge source", err)
	}
	if !info.IsDir() {
		return errors.NewCopyFailedError(srcDir, fmt.Sprintf("challenge source %s is not a directory", srcDir), nil)
	}
	entries, err := c.src.ReadDir(srcDir)
	if err != nil {
		return errors.NewCopyFailedError(srcDir, "failed to read challenge source", err)
	}
	if len(entries) == 0 {
		return errors.NewCopyFailedError(srcDir, fmt.Sprintf("challenge source %s is empty", srcDir), nil)
	}

	if _, err := c.dst.Lstat(dstDir); err == nil {
		if !opts.Overwrite {
			return errors.NewDestinationExistsError(dstDir)
		}
		logger.Debugw("removing existing destination", "path", dstDir)
		if err := util.RemoveAll(c.dst, dstDir); err != nil {
			return errors.NewCopyFailedError(dstDir, "failed to remove existing destination", err)
		}
	} else if !os.IsNotExist(err) {
		return errors.NewCopyFailedError(dstDir, "failed to inspect destination", err)
	}

	w := &walker{copier: c, exclude: toSet(opts.Exclude)}
	if err := w.copyDir(srcDir, dstDir, "", info.Mode()); err != nil {
		return errors.NewCopyFailedError(dstDir, "failed to copy challenge", err)
	}

	logger.Debugw("copied challenge", "source", srcDir, "destination", dstDir,
		"files", w.files, "skipped", w.skipped)
	return nil
}

// Excluded reports whether any segment of the slash separated relative path
// rel equals one of names.
func Excluded(rel string, names []string) bool {
	return isExcluded(rel, toSet(names))
}

func isExcluded(rel string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		if _, ok := set[segment]; ok {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

type walker struct {
	copier  *Copier
	exclude map[string]struct{}
	files   int
	skipped int
}

func (w *walker) copyDir(src, dst, rel string, mode os.FileMode) error {
	if err := w.copier.dst.MkdirAll(dst, mode.Perm()|0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	entries, err := w.copier.src.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", src, err)
	}

	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())
		if isExcluded(entryRel, w.exclude) {
			w.skipped++
			continue
		}

		from := w.copier.src.Join(src, entry.Name())
		to := w.copier.dst.Join(dst, entry.Name())

		switch {
		case entry.Mode()&os.ModeSymlink != 0:
			err = w.copySymlink(from, to)
		case entry.IsDir():
			err = w.copyDir(from, to, entryRel, entry.Mode())
		case entry.Mode().IsRegular():
			err = w.copyFile(from, to, entry.Mode())
		default:
			logger.Debugw("skipping special file", "path", from)
			w.skipped++
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) copyFile(src, dst string, mode os.FileMode) (err error) {
	in, err := w.copier.src.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := w.copier.dst.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	w.files++
	return nil
}

func (w *walker) copySymlink(src, dst string) error {
	target, err := w.copier.src.Readlink(src)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", src, err)
	}
	if err := w.copier.dst.Symlink(target, dst); err != nil {
		return fmt.Errorf("failed to create link %s: %w", dst, err)
	}
	w.files++
	return nil
}
