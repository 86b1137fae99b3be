package relocation

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// copyDir recursively copies a directory tree and returns the number of files copied.
func copyDir(src, dst string) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	files := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := copyDir(srcPath, dstPath)
			files += n
			if err != nil {
				return files, err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return files, err
		}
		files++
	}
	return files, nil
}

// copyFile copies a single file byte for byte, preserving its permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// copyOptional copies src (file or directory) when it exists. It reports whether
// anything was there to copy.
func copyOptional(src, dst string) (bool, int, error) {
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if info.IsDir() {
		n, err := copyDir(src, dst)
		return true, n, err
	}
	return true, 1, copyFile(src, dst)
}
