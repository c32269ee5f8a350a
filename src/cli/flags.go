// Package cli contains helper functions related to flag parsing, logging and prompting.
package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	cli "github.com/peterebden/go-cli-init/v5/flags"
	"github.com/thought-machine/go-flags"
)

// ParseFlagsOrDie parses the app's flags and dies if unsuccessful.
// Also dies if any unexpected arguments are passed.
// It returns the active command if there is one.
func ParseFlagsOrDie(appname string, data interface{}) string {
	return cli.ParseFlagsOrDie(appname, data, nil)
}

// ParseFlags parses the app's flags and returns the parser, any extra arguments, and any error encountered.
// The first element of args is taken to be the program name, as in os.Args.
func ParseFlags(appname string, data interface{}, args []string) (*flags.Parser, []string, error) {
	return cli.ParseFlags(appname, data, args, flags.HelpFlag|flags.PassDoubleDash, nil, nil)
}

// A Duration is used for flags that represent a time duration; it's just a wrapper
// around time.Duration that implements the flags.Unmarshaler and
// encoding.TextUnmarshaler interfaces.
type Duration = cli.Duration

// A Day is a puzzle day, which is always between 1 and 25.
// The zero value means "not set" and is resolved from the calendar later.
type Day int

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (d *Day) UnmarshalFlag(in string) error {
	i, err := strconv.Atoi(in)
	if err != nil {
		return flagsError(err)
	} else if i < 1 || i > 25 {
		return flagsError(fmt.Errorf("day must be between 1 and 25, was %d", i))
	}
	*d = Day(i)
	return nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (d *Day) UnmarshalText(text []byte) error {
	return d.UnmarshalFlag(string(text))
}

// A Year is a puzzle year. The zero value means "not set".
type Year int

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (y *Year) UnmarshalFlag(in string) error {
	i, err := strconv.Atoi(in)
	if err != nil {
		return flagsError(err)
	} else if i < 2015 {
		return flagsError(fmt.Errorf("year must be 2015 or greater, was %d", i))
	}
	*y = Year(i)
	return nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (y *Year) UnmarshalText(text []byte) error {
	return y.UnmarshalFlag(string(text))
}

// A Part is one half of a puzzle; either 1 or 2.
type Part int

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (p *Part) UnmarshalFlag(in string) error {
	i, err := strconv.Atoi(in)
	if err != nil {
		return flagsError(err)
	} else if i != 1 && i != 2 {
		return flagsError(fmt.Errorf("part must be 1 or 2, was %d", i))
	}
	*p = Part(i)
	return nil
}

// Bytes formats a byte count the way we show it to users, eg. "12 kB".
func Bytes(n int) string {
	return humanize.Bytes(uint64(n))
}

// flagsError converts an error to a flags.Error, which is required for flag parsing.
func flagsError(err error) error {
	if err == nil {
		return nil
	}
	return &flags.Error{Type: flags.ErrMarshal, Message: err.Error()}
}
