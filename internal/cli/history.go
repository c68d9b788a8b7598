package cli

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/storage"
)

type HistoryCmd struct {
	Limit int `help:"Number of entries to show, 0 for all." default:"${history_limit}"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	store, err := ctx.LoadedStore()
	if err != nil {
		return err
	}

	entries, err := store.GetChangeLog(context.Background(), productOrDefault(ctx.ProductID), c.Limit)
	if errors.Is(err, storage.ErrNotSupported) {
		ctx.printf("This storage backend does not keep a change history.\n")
		return nil
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		ctx.printf("No changes recorded yet.\n")
		return nil
	}
	for _, e := range entries {
		reason := e.Reason
		if reason == "" {
			reason = "-"
		}
		ctx.printf("  %-16s %6s  %s\n", humanize.Time(e.CreatedAt), humanize.Comma(int64(e.DayCount)), reason)
	}
	return nil
}

func productOrDefault(id string) string {
	if id == "" {
		return constants.DefaultProductID
	}
	return id
}
