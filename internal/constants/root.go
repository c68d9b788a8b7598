package constants

import "time"

const (
	AppName            = "blockout"
	Version            = "v0.2.0"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/blockout/blockout.db"
	KeyringConfigValue = "keyring"

	// DefaultProductID is the product whose calendar is edited when none is given.
	DefaultProductID = "1"

	// DateFormat is the wire and storage format for calendar days (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// RemovalReason is recorded whenever a committed range is removed.
	RemovalReason = "Updated after removal"

	// Environment variables
	EnvConfig       = "BLOCKOUT_CONFIG"
	EnvProduct      = "BLOCKOUT_PRODUCT"
	EnvDebug        = "BLOCKOUT_DEBUG"
	EnvTestPostgres = "BLOCKOUT_TEST_POSTGRES"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "blockout-"
	BackupFileSuffix = ".db"

	// HTTP API constants
	APIPrefix          = "/calender_api"
	DefaultServeAddr   = "127.0.0.1:8000"
	ServerLockfileName = "blockout-serve.lock"
	RemoteTimeout      = 15 * time.Second
	MaxRequestBodySize = 1 << 20

	// History defaults
	DefaultHistoryLimit = 20
)
