// Package site holds the filesystem side of a build: finding sources,
// aggregating navigation, copying static assets and writing output.
package site

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Discover returns the files under root whose extension matches one of
// exts (case-insensitive), sorted by path. Hidden files and directories are
// skipped. A missing root yields no files.
func Discover(root string, exts ...string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		slog.Debug("Content directory does not exist", logfields.Path(root))
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExt(d.Name(), exts) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("failed to walk content directory").
			WithCause(err).
			WithContext("path", root).
			Build()
	}

	slices.Sort(files)
	slog.Debug("Discovered files", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
