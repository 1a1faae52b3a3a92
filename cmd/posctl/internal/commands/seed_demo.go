package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/appetiteclub/pos/pkg/logger"
)

type demoOrder struct {
	table  string
	method string
	items  []ItemSpec
}

var demoOrders = []demoOrder{
	// Couple having drinks and dessert
	{table: "T1", method: "cash", items: []ItemSpec{{ID: "ms1", Qty: 2}, {ID: "li4", Qty: 2}}},
	// Family dinner
	{table: "T3", method: "upi", items: []ItemSpec{{ID: "dn1", Qty: 4}, {ID: "dn17", Qty: 2}, {ID: "mt4", Qty: 1}, {ID: "fi8", Qty: 1}}},
	// Quick lunch
	{table: "T5", method: "cash", items: []ItemSpec{{ID: "fr4", Qty: 1}, {ID: "ch8", Qty: 1}}},
}

// SeedDemo places a fixed set of sample orders through the POS service.
// Each demo table's cart is cleared first.
func SeedDemo(ctx context.Context, api API, log logger.Logger, out io.Writer) error {
	log.Info("Starting demo seeding process...")

	for _, o := range demoOrders {
		if err := api.ResetCart(ctx, o.table); err != nil {
			return fmt.Errorf("reset cart %s: %w", o.table, err)
		}
		if err := placeOrder(ctx, api, log, out, o.table, o.method, o.items); err != nil {
			return fmt.Errorf("seed %s: %w", o.table, err)
		}
	}

	log.Infof("Placed %d demo orders", len(demoOrders))
	return nil
}
