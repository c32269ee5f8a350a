package templates

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/peterebden/go-deferred-regex"

	"github.com/jakzo/aoc/src/fs"
)

var wipRegex = deferredregex.DeferredRegex{Re: `(?i)\bwip\b`}

// Promote copies every work-in-progress file in dir (one with "wip" as a word in its name) to
// the equivalent name for the given part, e.g. wip.go -> part1.go, replacing any that exist.
// It carries on past failures and returns all of them together.
func Promote(dir string, part int) ([]string, error) {
	files, err := fs.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	var errs *multierror.Error
	var promoted []string
	replacement := fmt.Sprintf("part%d", part)
	for _, file := range files {
		dest := wipRegex.ReplaceAllString(file, replacement)
		if dest == file {
			continue
		}
		log.Debug("Promoting %s to %s", file, dest)
		if err := fs.CopyFile(filepath.Join(dir, file), filepath.Join(dir, dest)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to copy %s: %w", file, err))
			continue
		}
		promoted = append(promoted, dest)
	}
	return promoted, errs.ErrorOrNil()
}
