// Package solution implements the placeholder puzzle solution: it loads the puzzle input in
// full and reports a result that does not (yet) depend on it.
package solution

import (
	"io"

	"github.com/jakzo/aoc/src/cli"
	"github.com/jakzo/aoc/src/cli/logging"
)

var log = logging.Log

// DefaultInputFile is the input file read when nothing else is specified, relative to the working directory.
const DefaultInputFile = "input.txt"

// Run loads the input from the given path and then reports the result to w.
// Nothing is written to w unless the input loads successfully.
func Run(w io.Writer, path string) error {
	input, err := LoadInput(path)
	if err != nil {
		return err
	}
	log.Debug("Loaded %s of input from %s", cli.Bytes(len(input)), path)
	return Report(w, Solve(input))
}

// Solve computes the result for the given input.
// It's a placeholder; the input is not inspected.
func Solve(input InputBuffer) Result {
	return Placeholder
}
