package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Runner{Stdout: &buf, Stderr: &buf}, &buf
}

func TestRunSequence(t *testing.T) {
	r, buf := newTestRunner()
	dir := t.TempDir()
	err := r.Run(context.Background(), []Command{
		{Args: []string{"sh", "-c", "echo first > out.txt"}, Dir: dir},
		{Args: []string{"cat", "out.txt"}, Dir: dir},
	})
	assert.NoError(t, err)
	assert.Equal(t, "first\n", buf.String())
}

func TestRunPassesStdin(t *testing.T) {
	r, buf := newTestRunner()
	r.Stdin = strings.NewReader("42\n")
	err := r.Run(context.Background(), []Command{{Args: []string{"cat"}}})
	assert.NoError(t, err)
	assert.Equal(t, "42\n", buf.String())
}

func TestNewRunnerUsesStdin(t *testing.T) {
	assert.Equal(t, os.Stdin, NewRunner().Stdin)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	r, buf := newTestRunner()
	err := r.Run(context.Background(), []Command{
		{Args: []string{"sh", "-c", "exit 3"}},
		{Args: []string{"echo", "unreachable"}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sh -c 'exit 3' failed")
	assert.Equal(t, "", buf.String())
}

func TestRunMissingBinary(t *testing.T) {
	r, _ := newTestRunner()
	err := r.Run(context.Background(), []Command{{Args: []string{"/definitely/not/a/binary"}}})
	assert.Error(t, err)
}

func TestRunEmptyCommand(t *testing.T) {
	r, _ := newTestRunner()
	assert.Error(t, r.Run(context.Background(), []Command{{}}))
}

func TestRunCancelled(t *testing.T) {
	r, _ := newTestRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := r.Run(ctx, []Command{{Args: []string{"sleep", "30"}}})
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRestartStopsPreviousRun(t *testing.T) {
	r, _ := newTestRunner()
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	r.Restart(context.Background(), []Command{
		{Args: []string{"sleep", "30"}},
		{Args: []string{"touch", marker}},
	})
	r.Restart(context.Background(), []Command{{Args: []string{"true"}}})
	r.Stop()
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "The first sequence should have been killed before it got to touch")
}

func TestCommandString(t *testing.T) {
	c := Command{Args: []string{"go", "run", "my file.go"}}
	assert.Equal(t, "go run 'my file.go'", c.String())
}

func TestStopWithNothingRunning(t *testing.T) {
	r, _ := newTestRunner()
	require.NotPanics(t, r.Stop)
}
