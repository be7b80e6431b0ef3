package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "screenblur.pid"))
}

func TestWriteReadRemovePID(t *testing.T) {
	d := newTestDaemon(t)

	if err := d.WritePID(); err != nil {
		t.Fatalf("WritePID() error: %v", err)
	}

	pid, err := d.ReadPID()
	if err != nil {
		t.Fatalf("ReadPID() error: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("ReadPID() = %d, want %d", pid, os.Getpid())
	}

	if err := d.RemovePID(); err != nil {
		t.Fatalf("RemovePID() error: %v", err)
	}

	pid, err = d.ReadPID()
	if err != nil {
		t.Fatalf("ReadPID() after remove error: %v", err)
	}
	if pid != 0 {
		t.Errorf("ReadPID() after remove = %d, want 0", pid)
	}
}

func TestRemovePIDMissingFile(t *testing.T) {
	d := newTestDaemon(t)
	if err := d.RemovePID(); err != nil {
		t.Errorf("RemovePID() on missing file error: %v", err)
	}
}

func TestReadPIDMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenblur.pid")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	d := New(path)
	if _, err := d.ReadPID(); err == nil {
		t.Error("ReadPID() accepted a malformed PID file")
	}
}

func TestIsRunningWithOwnPID(t *testing.T) {
	d := newTestDaemon(t)
	if err := d.WritePID(); err != nil {
		t.Fatalf("WritePID() error: %v", err)
	}

	running, pid, err := d.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning() error: %v", err)
	}
	if !running || pid != os.Getpid() {
		t.Errorf("IsRunning() = %v, %d, want true, %d", running, pid, os.Getpid())
	}
}

func TestIsRunningCleansStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenblur.pid")
	// An absurdly high PID that no live process holds.
	if err := os.WriteFile(path, []byte("4194000"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	d := New(path)
	running, _, err := d.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning() error: %v", err)
	}
	if running {
		t.Error("IsRunning() = true for a dead PID")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale PID file was not cleaned up")
	}
}

func TestIsRunningWithoutPIDFile(t *testing.T) {
	d := newTestDaemon(t)

	running, pid, err := d.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning() error: %v", err)
	}
	if running || pid != 0 {
		t.Errorf("IsRunning() = %v, %d, want false, 0", running, pid)
	}
}
