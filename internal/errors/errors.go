package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/session"
)

const (
	MsgLoadFailed = "Failed to load dates."
	MsgSaveFailed = "Failed to save dates."
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// UserMessage is the banner text for a session's last failure, "" if none.
func UserMessage(kind session.ErrorKind) string {
	switch kind {
	case session.LoadFailed:
		return MsgLoadFailed
	case session.SaveFailed:
		return MsgSaveFailed
	default:
		return ""
	}
}

// UserMessageFor maps a session error to its banner text, falling back to
// the error itself.
func UserMessageFor(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, session.ErrLoadFailed):
		return MsgLoadFailed
	case stderrors.Is(err, session.ErrSaveFailed):
		return MsgSaveFailed
	default:
		return err.Error()
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
