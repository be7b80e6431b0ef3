package desktop

import (
	"errors"
	"testing"
)

func TestProviderCloseRunsInReverseOrder(t *testing.T) {
	p := &Provider{}

	var order []string
	p.AddCloser(func() error { order = append(order, "first"); return nil })
	p.AddCloser(func() error { order = append(order, "second"); return nil })
	p.AddCloser(func() error { order = append(order, "third"); return nil })

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	want := []string{"third", "second", "first"}
	for i, got := range order {
		if got != want[i] {
			t.Fatalf("close order = %v, want %v", order, want)
		}
	}
}

func TestProviderCloseReturnsFirstError(t *testing.T) {
	p := &Provider{}

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := 0
	p.AddCloser(func() error { ran++; return errA })
	p.AddCloser(func() error { ran++; return errB })

	// Runs in reverse, so errB surfaces; errA still executes.
	if err := p.Close(); !errors.Is(err, errB) {
		t.Errorf("Close() = %v, want %v", err, errB)
	}
	if ran != 2 {
		t.Errorf("ran %d closers, want 2", ran)
	}
}

func TestProviderCloseWithNoClosers(t *testing.T) {
	p := &Provider{}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
