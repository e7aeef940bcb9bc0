package core

import (
	"strings"
	"testing"
	"time"
)

// stubCrash captures output and exit code; restores globals on cleanup
func stubCrash(t *testing.T) (*strings.Builder, chan int) {
	t.Helper()
	var out strings.Builder
	codes := make(chan int, 1)

	prevOut, prevExit := crashOutput, crashExit
	crashOutput = &out
	crashExit = func(code int) { codes <- code }
	t.Cleanup(func() {
		crashOutput, crashExit = prevOut, prevExit
		SetCrashCleanup(nil)
	})
	return &out, codes
}

func TestHandleCrash_NilIsNoop(t *testing.T) {
	out, codes := stubCrash(t)
	HandleCrash(nil)
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
	select {
	case c := <-codes:
		t.Errorf("Expected no exit, got %d", c)
	default:
	}
}

func TestHandleCrash_RunsCleanup(t *testing.T) {
	out, codes := stubCrash(t)
	cleaned := 0
	SetCrashCleanup(func() { cleaned++ })

	HandleCrash("boom")

	if cleaned != 1 {
		t.Errorf("Expected cleanup once, got %d", cleaned)
	}
	if !strings.Contains(out.String(), "CRASH DETECTED: boom") {
		t.Errorf("Expected crash banner, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Stack Trace:") {
		t.Error("Expected stack trace in output")
	}
	if c := <-codes; c != 1 {
		t.Errorf("Expected exit code 1, got %d", c)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	out, codes := stubCrash(t)
	SetCrashCleanup(func() {})

	Go(func() { panic("worker failed") })

	select {
	case c := <-codes:
		if c != 1 {
			t.Errorf("Expected exit code 1, got %d", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected panic to reach crash handler")
	}
	if !strings.Contains(out.String(), "worker failed") {
		t.Errorf("Expected panic value in output, got %q", out.String())
	}
}
