package schtasks

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is the captured result of one scheduler command invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes the scheduler command line. Production code uses
// ExecRunner; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, args ...string) (Output, error)
}

// ExecRunner invokes schtasks.exe as a subprocess with no visible console
// window. The caller's context bounds the invocation; the scheduler CLI can
// hang on permission prompts in non-interactive sessions, so every call
// should carry a deadline.
type ExecRunner struct {
	// Command overrides the executable name, for tests. Empty means
	// "schtasks".
	Command string
}

func (r ExecRunner) Run(ctx context.Context, args ...string) (Output, error) {
	command := r.Command
	if command == "" {
		command = "schtasks"
	}

	cmd := exec.CommandContext(ctx, command, args...)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, err
}
