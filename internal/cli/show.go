package cli

import (
	"context"
	"encoding/json"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/calendar"
)

type ShowCmd struct {
	JSON bool `help:"Print ranges as JSON."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	s, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}

	views := calendar.Views(s.CommittedDates())
	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(views) == 0 {
		ctx.printf("No unavailable dates for product %s.\n", s.ProductID())
		return nil
	}

	total := 0
	for _, v := range views {
		ctx.printf("  %-30s %s\n", v.Label, english.Plural(v.Days, "day", ""))
		total += v.Days
	}
	ctx.printf("\n%s blocked across %s.\n", english.Plural(total, "day", ""), english.Plural(len(views), "range", ""))
	return nil
}
