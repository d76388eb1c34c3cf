package util

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// RunCommand runs specified command in workingDir.
// If showOutput is set to true, command output is shown and nil output is returned.
// Else the combined output is collected and returned, so the caller can show
// it in case of failure.
func RunCommand(cmd *exec.Cmd, workingDir string, showOutput bool) ([]byte, error) {
	var out bytes.Buffer

	cmd.Dir = workingDir
	if showOutput {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("failed to run \n%s\n\n%s", cmd.String(), err)
	}

	if showOutput {
		return nil, nil
	}
	return out.Bytes(), nil
}
