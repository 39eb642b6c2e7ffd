package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner runs external commands on behalf of the pipeline. The
// exec-backed implementation is the production one; tests substitute a fake
// so no platform CLI is ever invoked.
type CommandRunner interface {
	// Run executes name with args in dir (empty dir means the current
	// working directory) and returns the combined trimmed output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)

	// Start launches a long-lived process with extra environment variables
	// and returns a function that stops it. Used for scratch servers such as
	// the performance smoke test backend.
	Start(ctx context.Context, dir string, env []string, name string, args ...string) (stop func(), err error)

	// LookPath reports whether name resolves to an executable.
	LookPath(name string) error
}

// ExecRunner is the os/exec backed CommandRunner.
type ExecRunner struct{}

// Run executes the command and returns its combined output.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		if output != "" {
			return output, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, output)
		}
		return output, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return output, nil
}

// Start launches the process and returns a stop function that kills it and
// reaps the exit status.
func (ExecRunner) Start(ctx context.Context, dir string, env []string, name string, args ...string) (func(), error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	return func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
	}, nil
}

// LookPath reports whether name is invocable.
func (ExecRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}
