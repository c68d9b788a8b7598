package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/backup"
	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/lockfile"
	"github.com/julianstephens/blockout/internal/session"
	"github.com/julianstephens/blockout/internal/storage/sqlite"
)

type DoctorCmd struct{}

// schemaReporter is implemented by the SQL backends.
type schemaReporter interface {
	SchemaVersions() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", name, err)
			hasError = true
		}
	}

	reachable := checkStorageReachable(ctx)
	report("Storage reachable", reachable, false)

	if reachable == nil {
		report("Schema version", checkSchemaVersion(ctx), false)
		report("Dates readable", checkDates(ctx), false)
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
		ctx.printf("⊘ Dates readable: SKIPPED (storage not reachable)\n")
	}

	if _, err := ctx.sqliteStore(); err == nil {
		report("Backups present", checkBackupsPresent(ctx), true)
	}
	report("Serve lockfile", checkLockfile(ctx), true)
	report("Clock", checkClock(), false)

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	store, err := ctx.LoadedStore()
	if err != nil {
		return err
	}
	if s, ok := store.(*sqlite.Store); ok {
		var one int
		if err := s.GetDB().QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	r, ok := store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := r.SchemaVersions()
	if err != nil {
		return err
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run '%s init'", current, latest, constants.AppName)
	}
	return nil
}

func checkDates(ctx *Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	s := session.New(store, ctx.ProductID)
	if err := s.Load(context.Background()); err != nil {
		return err
	}
	ctx.printf("   Product %s: %s in %s\n", s.ProductID(),
		english.Plural(len(s.CommittedDates()), "blocked day", ""),
		english.Plural(len(s.CommittedRanges()), "range", ""))
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	s, err := ctx.sqliteStore()
	if err != nil {
		return err
	}
	backups, err := backup.NewManager(s.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkLockfile(ctx *Context) error {
	info, running := lockfile.Read(lockfile.Path(ctx.ConfigDir()))
	if running {
		ctx.printf("   Server running on port %d (pid %d)\n", info.Port, info.PID)
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
