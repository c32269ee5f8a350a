package process

import (
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

// signalGroup kills the process; Windows has no SIGTERM so both cases are the same.
func signalGroup(cmd *exec.Cmd, kill bool) {
	if err := cmd.Process.Kill(); err != nil {
		log.Debug("Failed to kill process %d: %s", cmd.Process.Pid, err)
	}
}
