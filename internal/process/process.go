// Package process manages the external programs started during a
// conversion: LaTeX engines, graphviz and the headless browser.
package process

import (
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// orphaned children after the process group was killed.
const waitDelay = 5 * time.Second

// KillOnCancel starts cmd in its own process group and kills the whole
// group when the context of cmd is done. cmd must have been created with
// exec.CommandContext.
func KillOnCancel(cmd *exec.Cmd) {
	NewGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay
}
