package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/julianstephens/blockout/internal/backup"
	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/keyring"
	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/session"
	"github.com/julianstephens/blockout/internal/storage"
	"github.com/julianstephens/blockout/internal/storage/postgres"
	"github.com/julianstephens/blockout/internal/storage/remote"
	"github.com/julianstephens/blockout/internal/storage/sqlite"
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

type Context struct {
	// Config is the --config value: a sqlite or .json path, a PostgreSQL
	// connection string, an API base URL, or "keyring".
	Config    string
	ProductID string

	Out     io.Writer
	Confirm ConfirmFunc

	store storage.Provider
}

func NewContext(config, productID string) *Context {
	return &Context{
		Config:    config,
		ProductID: productID,
		Out:       os.Stdout,
		Confirm:   huhConfirm,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Store opens the configured backend on first use without loading it.
func (c *Context) Store() (storage.Provider, error) {
	if c.store != nil {
		return c.store, nil
	}
	store, err := OpenStore(c.Config)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// LoadedStore returns the store after Load has succeeded.
func (c *Context) LoadedStore() (storage.Provider, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// Session returns a session over the loaded store with its dates fetched.
func (c *Context) Session(ctx context.Context) (*session.Session, error) {
	store, err := c.LoadedStore()
	if err != nil {
		return nil, err
	}
	s := session.New(store, c.ProductID)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// ConfigDir is where logs, backups and the serve lockfile live. It is
// the database's directory for file backends.
func (c *Context) ConfigDir() string {
	if isFileConfig(c.Config) {
		return filepath.Dir(expandHome(c.Config))
	}
	return filepath.Dir(expandHome(constants.DefaultConfigPath))
}

// sqliteStore returns the store as a sqlite backend, for operations that
// work on the database file.
func (c *Context) sqliteStore() (*sqlite.Store, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	s, ok := store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("backups are only available for sqlite storage")
	}
	return s, nil
}

// PerformAutomaticBackup backs up sqlite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	s, err := c.sqliteStore()
	if err != nil {
		return
	}
	if _, err := backup.NewManager(s.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func isPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

func isRemote(config string) bool {
	return strings.HasPrefix(config, "http://") || strings.HasPrefix(config, "https://")
}

func isFileConfig(config string) bool {
	return config != constants.KeyringConfigValue && !isPostgres(config) && !isRemote(config)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// OpenStore picks the backend for a --config value.
func OpenStore(config string) (storage.Provider, error) {
	return openStore(config, false)
}

func openStore(config string, fromKeyring bool) (storage.Provider, error) {
	switch {
	case config == constants.KeyringConfigValue:
		if fromKeyring {
			return nil, errors.New("keyring entry cannot point at the keyring")
		}
		connStr, err := keyring.Get()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string found in keyring, use '%s keyring set' to store one", constants.AppName)
			}
			return nil, err
		}
		return openStore(connStr, true)

	case isPostgres(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			// the keyring is an acceptable home for a password
			if !(fromKeyring && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w; store it with '%s keyring set' or use .pgpass instead", err, constants.AppName)
				}
				return nil, err
			}
		}
		return postgres.New(config), nil

	case isRemote(config):
		return remote.New(config, nil), nil

	case strings.HasSuffix(config, ".json"):
		return storage.NewJSONStore(expandHome(config)), nil

	default:
		return sqlite.NewStore(expandHome(config)), nil
	}
}

// interactive reports whether stdin is a terminal.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func huhConfirm(title, description string) (bool, error) {
	if !interactive() {
		return false, errors.New("confirmation required: rerun with --yes")
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
