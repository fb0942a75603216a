package executor

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestExecute(t *testing.T) {
	requireBinary(t, "echo")

	out, err := New().Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteFailure(t *testing.T) {
	requireBinary(t, "sh")

	_, err := New().Execute(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail on non-zero exit")
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestStartStreamsStdout(t *testing.T) {
	requireBinary(t, "sh")

	p, err := New().Start(context.Background(), "sh", "-c", "printf abc")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	data, err := io.ReadAll(p.Stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("stdout = %q, want %q", data, "abc")
	}
	if err := p.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestStopLongRunning(t *testing.T) {
	requireBinary(t, "sleep")

	p, err := New().Start(context.Background(), "sleep", "30")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	start := time.Now()
	_ = p.Stop(time.Second)
	if time.Since(start) > 5*time.Second {
		t.Error("Stop() did not end the process in time")
	}
}
