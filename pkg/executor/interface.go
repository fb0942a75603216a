package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-running command whose stdout is streamed.
	Start(ctx context.Context, name string, args ...string) (*Process, error)
}
