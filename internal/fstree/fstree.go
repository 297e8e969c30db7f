// SPDX-License-Identifier: MIT
// Package fstree implements the file-tree capability used by the assembler:
// directory creation, recursive overwrite-idempotent copy, and tree removal.
package fstree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// MakeDirectories creates path and any missing parents. It is idempotent.
func MakeDirectories(path string) error {
	return os.MkdirAll(path, 0o755)
}

// RemoveTree deletes path and everything below it.
func RemoveTree(path string) error {
	return os.RemoveAll(path)
}

// CopyTreeInto recursively copies the contents of srcDir into destDir,
// overwriting existing files, so repeated copies of identical input produce
// byte-identical output. Entries whose slash-separated path relative to
// srcDir matches any exclude glob are skipped; ".git" directories are always
// skipped.
func CopyTreeInto(srcDir, destDir string, exclude []string) error {
	return filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return MakeDirectories(destDir)
		}
		slashRel := filepath.ToSlash(rel)
		if entry.IsDir() && entry.Name() == ".git" {
			return filepath.SkipDir
		}
		if matchesExclude(slashRel, exclude) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(destDir, rel)
		if entry.IsDir() {
			return MakeDirectories(target)
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			// Sockets, devices, and symlinks have no place in a template tree.
			return nil
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func matchesExclude(slashPath string, patterns []string) bool {
	for _, pattern := range patterns {
		match, err := doublestar.Match(filepath.ToSlash(pattern), slashPath)
		if err != nil {
			continue
		}
		if match {
			return true
		}
	}
	return false
}

func copyFile(src, dest string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
