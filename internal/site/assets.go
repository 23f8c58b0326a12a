package site

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// CopyAssets mirrors the static tree at src into dst and returns the number
// of files copied. Files whose destination is at least as new as the source
// are skipped. A missing src is not an error.
func CopyAssets(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if existing, statErr := os.Stat(target); statErr == nil && !existing.ModTime().Before(info.ModTime()) {
			return nil
		}
		if err := copyFile(path, target, info); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, ferrors.FileSystemError("failed to copy static assets").
			WithCause(err).
			WithContext("path", src).
			Build()
	}
	return copied, nil
}

func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
