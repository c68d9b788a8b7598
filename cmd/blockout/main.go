package main

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/blockout/internal/cli"
	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/errors"
	"github.com/julianstephens/blockout/internal/keyring"
	"github.com/julianstephens/blockout/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite or .json path, PostgreSQL connection string, API base URL, or 'keyring'. PostgreSQL credentials must NOT be embedded; use the keyring or .pgpass." env:"BLOCKOUT_CONFIG" default:"${default_config}"`
	Product  string `help:"Product whose calendar to edit." env:"BLOCKOUT_PRODUCT" default:"${default_product}"`
	LogDebug bool   `name:"debug" help:"Log debug output to stderr." env:"BLOCKOUT_DEBUG"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize blockout storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Edit unavailable dates interactively." default:"1"`
	Show     cli.ShowCmd     `cmd:"" help:"List blocked date ranges."`
	Block    cli.BlockCmd    `cmd:"" help:"Mark date ranges unavailable."`
	Unblock  cli.UnblockCmd  `cmd:"" help:"Make a blocked range available again."`
	History  cli.HistoryCmd  `cmd:"" help:"Show recent changes."`
	Serve    cli.ServeCmd    `cmd:"" help:"Serve the unavailable-dates HTTP API."`
	Validate cli.ValidateCmd `cmd:"" help:"Check ranges for overlaps without saving."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Block out unavailable dates on a product calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         constants.Version,
			"default_config":  constants.DefaultConfigPath,
			"default_product": constants.DefaultProductID,
			"history_limit":   strconv.Itoa(constants.DefaultHistoryLimit),
			"serve_addr":      constants.DefaultServeAddr,
		},
	)

	appCtx := cli.NewContext(CLI.Config, CLI.Product)
	if err := logger.Init(logger.Config{Debug: CLI.LogDebug, Dir: appCtx.ConfigDir()}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "config", keyring.Mask(appCtx.Config))

	err := ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	errors.Fatal(err)
}
