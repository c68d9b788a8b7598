package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/blockout/internal/models"
)

// ErrNotSupported is returned by backends that cannot serve an optional operation.
var ErrNotSupported = errors.New("operation not supported by this storage backend")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Unavailable dates
	FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error)
	// PersistUnavailableDates replaces the product's full list of unavailable
	// dates with dates and records reason in the change log.
	PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error

	// GetChangeLog returns the most recent writes for productID, newest first.
	GetChangeLog(ctx context.Context, productID string, limit int) ([]models.ChangeEntry, error)

	// Utils
	GetConfigPath() string
}
