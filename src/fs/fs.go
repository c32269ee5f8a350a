// Package fs provides various filesystem helpers.
package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirPermissions are the default permission bits we apply to directories.
const DirPermissions = os.ModeDir | 0775

// EnsureDir ensures that the directory of the given file has been created.
func EnsureDir(filename string) error {
	return os.MkdirAll(filepath.Dir(filename), DirPermissions)
}

// PathExists returns true if the given path exists, as a file or a directory.
func PathExists(filename string) bool {
	_, err := os.Lstat(filename)
	return err == nil
}

// FileExists returns true if the given path exists and is a file.
func FileExists(filename string) bool {
	info, err := os.Lstat(filename)
	return err == nil && !info.IsDir()
}

// IsDirectory checks if a given path is a directory
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WriteFileIfNotExists writes the contents of r to the given file, creating its directory if needed.
// It never replaces an existing file; if one is already there it returns false and no error.
func WriteFileIfNotExists(r io.Reader, to string, mode os.FileMode) (bool, error) {
	if err := EnsureDir(to); err != nil {
		return false, err
	}
	if mode == 0 {
		mode = 0644
	}
	f, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}
