// Package calendar knows when Advent of Code puzzles unlock.
// Puzzles unlock at midnight EST (05:00 UTC) on each of December 1st to 25th.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakzo/aoc/src/cli/logging"
)

var log = logging.Log

// FirstYear is the first year Advent of Code ran.
const FirstYear = 2015

// Days is the number of puzzles in a year.
const Days = 25

// unlockHour is the UTC hour at which each puzzle unlocks.
const unlockHour = 5

// ErrNotStarted is returned when asking for the current day before December.
var ErrNotStarted = errors.New("Advent of Code has not started yet")

// ErrOver is returned when asking for the current day after the 25th.
var ErrOver = errors.New("Advent of Code is over")

// StartOf returns the time at which the given puzzle unlocks.
func StartOf(year, day int) time.Time {
	return time.Date(year, time.December, day, unlockHour, 0, 0, 0, time.UTC)
}

// CurrentDay returns the day of the puzzle currently running.
func CurrentDay(now time.Time) (int, error) {
	now = now.UTC()
	if now.Month() != time.December {
		return 0, ErrNotStarted
	} else if now.Day() > Days {
		return 0, ErrOver
	}
	return now.Day(), nil
}

// CurrentYear returns the year to use when none is given.
func CurrentYear(now time.Time) int {
	return now.UTC().Year()
}

// Validate checks that a day and year identify a real puzzle.
func Validate(day, year int) error {
	if day < 1 || day > Days {
		return fmt.Errorf("day must be between 1 and %d", Days)
	} else if year < FirstYear {
		return fmt.Errorf("year must be %d or greater", FirstYear)
	}
	return nil
}

// NextStart returns the start time of the next puzzle to unlock after now.
func NextStart(now time.Time) time.Time {
	now = now.UTC()
	year := now.Year()
	first := StartOf(year, 1)
	if now.Before(first) {
		return first
	} else if now.After(StartOf(year, Days)) {
		return StartOf(year+1, 1)
	}
	day := now.Day()
	if now.Hour() >= unlockHour {
		day++
	}
	return StartOf(year, day)
}

// PrevStart returns the start time of the most recent puzzle to have unlocked before now.
func PrevStart(now time.Time) time.Time {
	now = now.UTC()
	year := now.Year()
	if now.Before(StartOf(year, 1)) {
		return StartOf(year-1, Days)
	}
	last := StartOf(year, Days)
	if now.After(last) {
		return last
	}
	day := now.Day()
	if now.Hour() < unlockHour {
		day--
	}
	return StartOf(year, day)
}

// CurrentChallengeStart returns the start of the puzzle the user is most likely interested in:
// the previous one if it started less than margin ago, otherwise the next one.
func CurrentChallengeStart(now time.Time, margin time.Duration) time.Time {
	if prev := PrevStart(now); now.Sub(prev) < margin {
		return prev
	}
	return NextStart(now)
}
