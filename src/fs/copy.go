package fs

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from 'from' to 'to', replacing anything that was there already.
// The new file has the same permissions as the original.
func CopyFile(from, to string) error {
	fromFile, err := os.Open(from)
	if err != nil {
		return err
	}
	defer fromFile.Close()
	info, err := fromFile.Stat()
	if err != nil {
		return err
	}
	return WriteFile(fromFile, to, info.Mode().Perm())
}

// WriteFile writes data from a reader to the file named 'to', with an attempt to perform
// a copy & rename to avoid chaos if anything goes wrong partway.
func WriteFile(r io.Reader, to string, mode os.FileMode) error {
	if err := EnsureDir(to); err != nil {
		return err
	}
	dir, file := filepath.Split(to)
	tempFile, err := os.CreateTemp(dir, file)
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name()) // No-op once the rename has happened
	if _, err := io.Copy(tempFile, r); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tempFile.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tempFile.Name(), to)
}
