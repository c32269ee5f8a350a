// Package process runs the command sequences that build and run a solution.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/alessio/shellescape"

	"github.com/jakzo/aoc/src/cli"
	"github.com/jakzo/aoc/src/cli/logging"
)

var log = logging.Log

// terminateGracePeriod is how long a process gets to exit after SIGTERM before it's sent SIGKILL.
const terminateGracePeriod = time.Second

// A Command is a single program invocation.
type Command struct {
	Args []string
	Dir  string
}

// String returns the command as it would be typed into a shell.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Args)
}

// A Runner runs sequences of commands, one sequence at a time.
type Runner struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	mutex   sync.Mutex
	current *execution
}

type execution struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns a Runner attached to this process' stdin, stdout and stderr.
// Anything it's running is stopped if we're killed by a signal.
func NewRunner() *Runner {
	r := &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	cli.AtExit(r.Stop)
	return r
}

// Run runs each command in turn, stopping at the first one that fails.
// If the context is cancelled the running command is terminated and the context's error returned.
func (r *Runner) Run(ctx context.Context, cmds []Command) error {
	for i, c := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			log.Notice("Running: %s", c)
		} else {
			log.Notice("Then running: %s", c)
		}
		if err := r.runOne(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, c Command) error {
	if len(c.Args) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", c, err)
	}
	ch := make(chan error, 1)
	go func() {
		ch <- cmd.Wait()
	}()
	select {
	case err := <-ch:
		if err != nil {
			return fmt.Errorf("%s failed: %w", c, err)
		}
		return nil
	case <-ctx.Done():
		terminate(cmd, ch)
		return ctx.Err()
	}
}

// terminate kills a process, attempting to send it a SIGTERM first followed by a SIGKILL
// shortly after if it hasn't exited. ch receives the result of waiting on the process.
func terminate(cmd *exec.Cmd, ch <-chan error) {
	log.Debug("Terminating process %d", cmd.Process.Pid)
	signalGroup(cmd, false)
	select {
	case <-ch:
		return
	case <-time.After(terminateGracePeriod):
	}
	log.Debug("Process %d didn't exit, killing it", cmd.Process.Pid)
	signalGroup(cmd, true)
	<-ch
}

// Restart stops any sequence that is currently running and starts running cmds in the background.
func (r *Runner) Restart(ctx context.Context, cmds []Command) {
	r.Stop()
	ctx, cancel := context.WithCancel(ctx)
	e := &execution{cancel: cancel, done: make(chan struct{})}
	r.mutex.Lock()
	r.current = e
	r.mutex.Unlock()
	go func() {
		defer close(e.done)
		defer cancel()
		if err := r.Run(ctx, cmds); err == nil {
			log.Notice("Finished")
		} else if ctx.Err() == nil {
			log.Warning("Finished with error: %s", err)
		}
	}()
}

// Stop terminates the sequence currently running, if there is one, and waits for it to exit.
func (r *Runner) Stop() {
	r.mutex.Lock()
	e := r.current
	r.current = nil
	r.mutex.Unlock()
	if e != nil {
		e.cancel()
		<-e.done
	}
}
