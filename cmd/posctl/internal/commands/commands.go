package commands

import (
	"context"

	"github.com/appetiteclub/pos/cmd/posctl/internal/client"
)

// API is the subset of the POS service the commands drive.
type API interface {
	ResetCart(ctx context.Context, table string) error
	AddItem(ctx context.Context, table, itemID string) error
	PlaceOrder(ctx context.Context, table, method string) (client.Confirmation, error)
	Board(ctx context.Context, refresh bool) (client.Board, error)
	Advance(ctx context.Context, orderID string) (client.Card, error)
}
