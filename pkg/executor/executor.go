package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(name, err, stderr.String())
	}

	return stdout.String(), nil
}

// Start launches the command and returns once it is running
func (e *implExecutor) Start(ctx context.Context, name string, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("command '%s' stdout: %w", name, err)
	}

	p := &Process{name: name, cmd: cmd, Stdout: stdout}
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command '%s' failed to start: %w", name, err)
	}

	return p, nil
}

func commandError(name string, err error, stderr string) error {
	// Include stderr in error message for debugging
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderr)
	}
	return fmt.Errorf("command '%s' failed: %w", name, err)
}
