package calendar

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// A Clock tells the time and sleeps. It exists so the countdown can be tested without waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Countdown writes the time remaining until start once a second, aligned to the start time,
// until it is reached. If interactive is true each tick overwrites the previous line.
// It returns immediately if start has already passed.
func Countdown(ctx context.Context, w io.Writer, start time.Time, clock Clock, interactive bool) error {
	if !clock.Now().Before(start) {
		return nil
	}
	log.Debug("Counting down to %s", start)
	for {
		now := clock.Now()
		if interactive {
			fmt.Fprint(w, "\r\x1b[K")
		}
		if !now.Before(start) {
			_, err := fmt.Fprintln(w, "Challenge starting now!")
			return err
		}
		msg := "Challenge starts " + humanize.RelTime(now, start.Add(500*time.Millisecond), "from now", "ago")
		if interactive {
			fmt.Fprint(w, msg)
		} else {
			fmt.Fprintln(w, msg)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(tickInterval(now, start)):
		}
	}
}

// tickInterval returns how long to wait so the next tick falls on a whole second before start.
func tickInterval(now, start time.Time) time.Duration {
	offset := start.Sub(now) % time.Second
	if offset <= 0 {
		offset += time.Second
	}
	return offset
}
