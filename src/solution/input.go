package solution

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// An InputBuffer is the full text of a puzzle input. No structure is imposed on it.
type InputBuffer string

// An InputError is returned when the input can't be loaded.
// Op is one of "open", "read" or "decode".
type InputError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the builtin error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("failed to %s input %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause so it can be inspected with errors.Is / errors.As.
func (e *InputError) Unwrap() error {
	return e.Err
}

// ErrInvalidEncoding is the cause of a decode failure.
var ErrInvalidEncoding = errors.New("not valid UTF-8 text")

// LoadInput reads the whole of the given file as UTF-8 text.
func LoadInput(path string) (InputBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &InputError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return readInput(f, path)
}

func readInput(r io.Reader, path string) (InputBuffer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", &InputError{Op: "read", Path: path, Err: err}
	} else if !utf8.Valid(b) {
		return "", &InputError{Op: "decode", Path: path, Err: ErrInvalidEncoding}
	}
	return InputBuffer(b), nil
}
