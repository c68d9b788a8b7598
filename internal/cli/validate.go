package cli

import (
	"context"

	"github.com/julianstephens/blockout/internal/models"
	"github.com/julianstephens/blockout/internal/validation"
)

// ValidateCmd checks ranges against the stored dates without saving
// anything. With no ranges it reviews the stored dates themselves.
type ValidateCmd struct {
	Ranges []string `arg:"" optional:"" name:"range" help:"Range to check: YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	ranges, err := parseRanges(c.Ranges)
	if err != nil {
		return err
	}

	s, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}

	validator := validation.New(models.Today())
	var result validation.ValidationResult
	if len(ranges) == 0 {
		ctx.printf("Validating stored dates...\n")
		result = validator.ValidateCommitted(s.CommittedSet())
	} else {
		ctx.printf("Validating %d ranges...\n", len(ranges))
		result = validator.ValidateRanges(ranges, s.CommittedSet())
	}

	ctx.printf("\n%s\n", result.FormatReport())
	return nil
}

func parseRanges(raw []string) ([]models.DateRange, error) {
	ranges := make([]models.DateRange, 0, len(raw))
	for _, r := range raw {
		parsed, err := models.ParseRange(r)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, parsed)
	}
	return ranges, nil
}
