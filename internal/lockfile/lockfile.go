// Package lockfile records the port and pid of a running blockout serve
// so a second instance can refuse to start.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/blockout/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid

	ErrAlreadyRunning = errors.New("server already running")
)

// Info is the content of a lockfile: "port|pid".
type Info struct {
	Port int
	PID  int
}

func Path(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

func parse(content string) (Info, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 2 {
		return Info{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Info{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Info{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || pid <= 0 {
		return Info{}, errors.New("invalid process ID in lockfile")
	}
	return Info{Port: port, PID: pid}, nil
}

// Read returns the lockfile at path if it names a live blockout process.
// Missing, malformed, and stale lockfiles all report ok == false.
func Read(path string) (Info, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Info{}, false
	}
	info, err := parse(string(content))
	if err != nil {
		return Info{}, false
	}

	process, err := findProcessFunc(info.PID)
	if err != nil || process == nil {
		return Info{}, false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return Info{}, false
	}
	return info, true
}

// Acquire writes a lockfile for port at path. It fails with
// ErrAlreadyRunning if another live instance holds it; stale files are
// overwritten. The returned release func removes the file.
func Acquire(path string, port int) (func() error, error) {
	if info, ok := Read(path); ok && info.PID != getpidFunc() {
		return nil, fmt.Errorf("%w on port %d (pid %d)", ErrAlreadyRunning, info.Port, info.PID)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%d", port, getpidFunc())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	return func() error {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}, nil
}
