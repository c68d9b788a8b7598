package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/blockout/internal/backup"
	"github.com/julianstephens/blockout/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	s, err := ctx.sqliteStore()
	if err != nil {
		return err
	}
	info, err := backup.NewManager(s.GetConfigPath()).Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", info.Name())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	s, err := ctx.sqliteStore()
	if err != nil {
		return err
	}
	mgr := backup.NewManager(s.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.printf("No backups found.\nBackups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%s, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Name(),
			humanize.Bytes(uint64(b.Size)),
			humanize.Time(b.Timestamp),
		)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	s, err := ctx.sqliteStore()
	if err != nil {
		return err
	}
	mgr := backup.NewManager(s.GetConfigPath())

	path := c.BackupFile
	if _, err := os.Stat(path); err != nil {
		path = mgr.Resolve(c.BackupFile)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if !c.Yes {
		ok, err := ctx.Confirm(
			"Replace the current database with this backup?",
			fmt.Sprintf("Restore from %s. Stop any running %s processes first; the current database is backed up before restoring.", path, constants.AppName),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Restore cancelled.\n")
			return nil
		}
	}

	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety.Path != "" {
		ctx.printf("Created backup of current database: %s\n", safety.Name())
	}
	ctx.printf("✓ Database restored from %s\n", filepath.Base(path))
	return nil
}
