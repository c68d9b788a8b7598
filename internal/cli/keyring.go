package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/keyring"
	"github.com/julianstephens/blockout/internal/storage/postgres"
)

// KeyringSetCmd stores a PostgreSQL connection string or API URL in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string or API base URL."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	switch {
	case isPostgres(cmd.ConnectionString):
		if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.printf("Note: the connection string contains a password; it is kept in the encrypted OS keyring.\n")
		}
	case isRemote(cmd.ConnectionString):
	default:
		return errors.New("expected a postgres:// connection string or an http(s):// API URL")
	}

	if err := keyring.Set(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.printf("✓ Connection string stored in OS keyring\n")
	ctx.printf("  Use it with --config %s\n", constants.KeyringConfigValue)
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.Get()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string found in keyring, use '%s keyring set' to store one", constants.AppName)
		}
		return err
	}
	ctx.printf("%s\n", keyring.Mask(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.printf("✓ Connection string deleted from OS keyring\n")
	return nil
}
