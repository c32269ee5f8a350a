package fs

import (
	"os"
	"sort"

	"github.com/karrick/godirwalk"
)

// SkipDir can be returned from a Walk callback to skip the directory it was called for.
var SkipDir = godirwalk.SkipThis

// Walk implements an equivalent to filepath.Walk.
// It's implemented over github.com/karrick/godirwalk but the provided interface doesn't use that
// to make it a little easier to handle.
func Walk(rootPath string, callback func(name string, isDir bool) error) error {
	// Compatibility with filepath.Walk which allows passing a file as the root argument.
	if info, err := os.Lstat(rootPath); err != nil {
		return err
	} else if !info.IsDir() {
		return callback(rootPath, false)
	}
	return godirwalk.Walk(rootPath, &godirwalk.Options{
		Callback: func(name string, info *godirwalk.Dirent) error {
			return callback(name, info.IsDir())
		},
	})
}

// ListFiles returns the regular files directly inside the given directory, in sorted order.
func ListFiles(dir string) ([]string, error) {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, d := range dirents {
		if d.IsRegular() {
			ret = append(ret, d.Name())
		}
	}
	sort.Strings(ret)
	return ret, nil
}
