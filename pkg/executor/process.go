package executor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Process is a running command started by Executor.Start.
type Process struct {
	// Stdout must be drained by the caller, the command blocks once the pipe is full.
	Stdout io.ReadCloser

	name   string
	cmd    *exec.Cmd
	stderr bytes.Buffer

	waitOnce sync.Once
	waitErr  error
}

// Wait blocks until the command exits.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		if err := p.cmd.Wait(); err != nil {
			p.waitErr = commandError(p.name, err, p.stderr.String())
		}
	})
	return p.waitErr
}

// Stop asks the command to exit with an interrupt and kills it after grace.
func (p *Process) Stop(grace time.Duration) error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = p.cmd.Process.Kill()
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		_ = p.cmd.Process.Kill()
		return <-done
	}
}
