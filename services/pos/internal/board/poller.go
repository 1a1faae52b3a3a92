package board

import (
	"context"
	"time"

	"github.com/appetiteclub/pos/pkg/logger"
)

const DefaultPollInterval = 5 * time.Second

type refresher interface {
	Refresh(ctx context.Context) error
}

// Poller refreshes the board on a fixed interval until its context ends.
type Poller struct {
	board    refresher
	interval time.Duration
	logger   logger.Logger
}

func NewPoller(board refresher, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Poller{
		board:    board,
		interval: interval,
		logger:   log.With("component", "poller"),
	}
}

// Run fetches immediately and then on every tick. It returns nil once ctx
// is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("board polling started", "interval", p.interval.String())
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("board polling stopped")
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.board.Refresh(ctx); err != nil {
		p.logger.Debug("poll failed", "error", err)
	}
}
