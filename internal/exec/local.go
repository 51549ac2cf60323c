// Package exec runs the meshtastic tool and classifies its failures.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	mmerrors "github.com/elwarren/meshtastic-menubar/internal/errors"
)

// waitDelay bounds how long Capture waits for output pipes after the process
// is killed, since the tool may leave children holding them open.
const waitDelay = 2 * time.Second

// Runner runs a program and captures its output. Implementations must honour
// ctx cancellation.
type Runner interface {
	Capture(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

// LocalRunner executes programs on this machine via os/exec. No shell is
// involved, so arguments reach the program verbatim.
type LocalRunner struct {
	// Env, when non-nil, replaces the process environment.
	Env []string
}

// NewLocalRunner returns a runner using the current environment.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Capture runs name with args and returns stdout, stderr and the exit code.
// A bare name missing from PATH is also looked up in the usual install
// directories (see FindBinary). A non-zero exit is not an error; err is set
// only when the program could not be started or ctx ended first.
func (r *LocalRunner) Capture(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error) {
	if !strings.ContainsRune(name, os.PathSeparator) {
		if found, ok := FindBinary(name); ok {
			name = found
		}
	}

	command := exec.CommandContext(ctx, name, args...)
	command.WaitDelay = waitDelay
	if r.Env != nil {
		command.Env = r.Env
	}

	var outBuf, errBuf bytes.Buffer
	command.Stdout = &outBuf
	command.Stderr = &errBuf

	runErr := command.Run()
	if runErr == nil {
		return outBuf.Bytes(), errBuf.Bytes(), 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return outBuf.Bytes(), errBuf.Bytes(), -1, mmerrors.WrapWithCode(ctxErr, mmerrors.ErrTransport,
			"The meshtastic tool did not answer in time",
			"Check the radio is reachable, or raise fetch_timeout")
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return outBuf.Bytes(), errBuf.Bytes(), exitErr.ExitCode(), nil
	}

	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
		return nil, nil, 127, nil
	}

	return nil, nil, -1, mmerrors.WrapWithCode(runErr, mmerrors.ErrTransport,
		"Couldn't run "+name,
		"Make sure the command exists and is executable.")
}
