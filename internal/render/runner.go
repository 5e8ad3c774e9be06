package render

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/alnah/go-md2latex/internal/process"
)

// Runner abstracts command execution to enable testing without real
// subprocesses. Run executes name in dir and returns its captured output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements Runner using os/exec. The whole process group is
// killed when ctx is done.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool names are fixed by this package
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	process.KillOnCancel(cmd)

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
