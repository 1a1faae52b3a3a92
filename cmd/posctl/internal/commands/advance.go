package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Advance moves each given order to its next kitchen status.
func Advance(ctx context.Context, api API, out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one order id is required")
	}

	var errs []error
	for _, id := range args {
		card, err := api.Advance(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", id, card.StatusLabel)
	}
	return errors.Join(errs...)
}
