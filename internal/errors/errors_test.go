package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/blockout/internal/session"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("something went wrong"), "Error: something went wrong"},
		{"wrapped error", fmt.Errorf("open store: %w", errors.New("denied")), "Error: open store: denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("invalid range %q", "2024-01-05:2024-01-01"); got != `Error: invalid range "2024-01-05:2024-01-01"` {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		kind session.ErrorKind
		want string
	}{
		{session.NoError, ""},
		{session.LoadFailed, "Failed to load dates."},
		{session.SaveFailed, "Failed to save dates."},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.kind); got != tt.want {
			t.Errorf("UserMessage(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestUserMessageFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"load", fmt.Errorf("%w: timeout", session.ErrLoadFailed), MsgLoadFailed},
		{"save", fmt.Errorf("%w: disk full", session.ErrSaveFailed), MsgSaveFailed},
		{"other", session.ErrIndexOutOfRange, session.ErrIndexOutOfRange.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessageFor(tt.err); got != tt.want {
				t.Errorf("UserMessageFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFatal runs Fatal in a subprocess since it exits.
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(stderr.String(), "Error: test error") {
		t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
