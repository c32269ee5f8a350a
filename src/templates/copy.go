package templates

import (
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jakzo/aoc/src/fs"
)

// Copy copies all the template's files into the given directory. Existing files are never
// overwritten. It returns the files that were written, relative to dest.
func Copy(t *Template, dest string) ([]string, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	var g errgroup.Group
	var mutex sync.Mutex
	var written []string
	for _, file := range files {
		file := file
		g.Go(func() error {
			f, err := t.files.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			ok, err := fs.WriteFileIfNotExists(f, filepath.Join(dest, filepath.FromSlash(file)), 0)
			if err != nil {
				return err
			} else if !ok {
				log.Info("Not overwriting %s", file)
				return nil
			}
			mutex.Lock()
			defer mutex.Unlock()
			written = append(written, file)
			return nil
		})
	}
	err = g.Wait()
	sort.Strings(written)
	return written, err
}
