package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/appetiteclub/pos/pkg/logger"
)

// ItemSpec is a menu item id with a quantity, written "id" or "id=qty".
type ItemSpec struct {
	ID  string
	Qty int
}

func ParseItemSpec(s string) (ItemSpec, error) {
	id, qtyText, hasQty := strings.Cut(strings.TrimSpace(s), "=")
	id = strings.TrimSpace(id)
	if id == "" {
		return ItemSpec{}, fmt.Errorf("invalid item %q: missing id", s)
	}
	if !hasQty {
		return ItemSpec{ID: id, Qty: 1}, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil || qty < 1 {
		return ItemSpec{}, fmt.Errorf("invalid item %q: quantity must be a positive number", s)
	}
	return ItemSpec{ID: id, Qty: qty}, nil
}

// Place adds items to a table's cart and submits it.
//
//	posctl place -table T3 -method upi dn1=2 dn17
func Place(ctx context.Context, api API, log logger.Logger, out io.Writer, args []string) error {
	flags := flag.NewFlagSet("place", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	table := flags.String("table", "", "table id (T1..T10)")
	method := flags.String("method", "cash", "payment method: cash or upi")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *table == "" {
		return errors.New("-table is required")
	}
	if flags.NArg() == 0 {
		return errors.New("at least one item is required")
	}

	items := make([]ItemSpec, 0, flags.NArg())
	for _, arg := range flags.Args() {
		spec, err := ParseItemSpec(arg)
		if err != nil {
			return err
		}
		items = append(items, spec)
	}

	return placeOrder(ctx, api, log, out, *table, *method, items)
}

func placeOrder(ctx context.Context, api API, log logger.Logger, out io.Writer, table, method string, items []ItemSpec) error {
	for _, item := range items {
		for range item.Qty {
			if err := api.AddItem(ctx, table, item.ID); err != nil {
				return fmt.Errorf("add %s to %s: %w", item.ID, table, err)
			}
		}
	}

	conf, err := api.PlaceOrder(ctx, table, method)
	if err != nil {
		return err
	}
	log.Info("order placed", "order_id", conf.OrderID, "table", conf.Table)

	fmt.Fprintf(out, "Order %s for %s\n", conf.OrderID, conf.Table)
	fmt.Fprintf(out, "  %s\n", conf.Items)
	fmt.Fprintf(out, "  Subtotal ₹%d  GST ₹%d  Total ₹%d  (%s)\n", conf.Subtotal, conf.GST, conf.Total, conf.PaymentMethod)
	return nil
}
