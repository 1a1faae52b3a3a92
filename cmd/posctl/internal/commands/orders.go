package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
)

// Orders prints the kitchen board grouped by column.
func Orders(ctx context.Context, api API, out io.Writer, args []string) error {
	flags := flag.NewFlagSet("orders", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	refresh := flags.Bool("refresh", false, "force a fetch from the backend")
	if err := flags.Parse(args); err != nil {
		return err
	}

	b, err := api.Board(ctx, *refresh)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, col := range b.Columns {
		fmt.Fprintf(tw, "%s (%d)\n", col.Title, len(col.Cards))
		for _, card := range col.Cards {
			late := ""
			if card.Late {
				late = "LATE"
			}
			fmt.Fprintf(tw, "  #%s\t%s\t%s\t₹%d\t%dm\t%s\t%s\n",
				card.ShortID, card.Table, card.ItemsText, card.Total, card.ElapsedMinutes, late, card.Action)
		}
	}
	if b.Error != "" {
		fmt.Fprintf(tw, "error: %s\n", b.Error)
	}
	return tw.Flush()
}
