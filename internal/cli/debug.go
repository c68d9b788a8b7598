package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/keyring"
	"github.com/julianstephens/blockout/internal/models"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show storage location."`
	DumpDates *DebugDumpDatesCmd `cmd:"" help:"Dump a product's dates as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	return ctx.printJSON(map[string]string{
		"path":    keyring.Mask(store.GetConfigPath()),
		"backend": fmt.Sprintf("%T", store),
		"dir":     ctx.ConfigDir(),
	})
}

type DebugDumpDatesCmd struct{}

type dateDump struct {
	Product string             `json:"product"`
	Dates   []models.Day       `json:"dates"`
	Ranges  []models.RangeView `json:"ranges"`
}

func (cmd *DebugDumpDatesCmd) Run(ctx *Context) error {
	s, err := ctx.Session(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load dates: %w", err)
	}
	dates := s.CommittedDates()
	return ctx.printJSON(dateDump{
		Product: s.ProductID(),
		Dates:   dates,
		Ranges:  calendar.Views(dates),
	})
}

func (c *Context) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.printf("%s\n", out)
	return nil
}
