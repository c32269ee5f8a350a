package solution

import (
	"fmt"
	"io"
)

// A Result is the answer to a puzzle.
type Result int

// Placeholder is the result reported until a real solution is written.
const Placeholder Result = 0

// Report writes the result as a single line.
func Report(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w, "Result: %d\n", r)
	return err
}
