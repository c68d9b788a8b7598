package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/models"
	"github.com/julianstephens/blockout/internal/validation"
)

type BlockCmd struct {
	Ranges []string `arg:"" name:"range" help:"Range to block: YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD."`
	Reason string   `help:"Reason recorded with the change."`
}

func (c *BlockCmd) Run(ctx *Context) error {
	ranges, err := parseRanges(c.Ranges)
	if err != nil {
		return err
	}

	goctx := context.Background()
	s, err := ctx.Session(goctx)
	if err != nil {
		return err
	}

	notes := validation.New(models.Today()).
		ValidateRanges(ranges, s.CommittedSet()).
		Without(validation.ConflictPastDates)
	for _, n := range notes.Conflicts {
		ctx.printf("Note: %s\n", n.Description)
	}

	before := len(s.CommittedDates())
	for _, r := range ranges {
		if err := s.StagePendingRange(r); err != nil {
			return err
		}
	}
	if err := s.Commit(goctx, c.Reason); err != nil {
		return fmt.Errorf("failed to save dates: %w", err)
	}

	after := len(s.CommittedDates())
	ctx.printf("Blocked %s (%s newly unavailable, %d total).\n",
		english.Plural(len(ranges), "range", ""),
		english.Plural(after-before, "day", ""),
		after,
	)
	return nil
}
