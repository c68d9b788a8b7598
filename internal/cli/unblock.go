package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/models"
)

type UnblockCmd struct {
	Range string `arg:"" name:"range" help:"Range to free: YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *UnblockCmd) Run(ctx *Context) error {
	r, err := models.ParseRange(c.Range)
	if err != nil {
		return err
	}

	goctx := context.Background()
	s, err := ctx.Session(goctx)
	if err != nil {
		return err
	}

	before := s.CommittedSet()
	after, err := calendar.Subtract(before, r)
	if err != nil {
		return err
	}
	freed := before.Len() - after.Len()
	if freed == 0 {
		ctx.printf("Nothing to unblock in %s.\n", calendar.FormatRange(r))
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Confirm(
			fmt.Sprintf("Unblock %s?", calendar.FormatRange(r)),
			fmt.Sprintf("%s will become available again.", english.Plural(freed, "day", "")),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Unblock cancelled.\n")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := s.RemoveCommittedRange(goctx, r); err != nil {
		return fmt.Errorf("failed to save dates: %w", err)
	}
	ctx.printf("Unblocked %s (%d total remaining).\n", english.Plural(freed, "day", ""), len(s.CommittedDates()))
	return nil
}
