package booking

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically reclaims seats from pending bookings whose hold
// has expired.  The hold TTL is a soft deadline: nothing cancels a
// booking the instant it lapses, the next sweep pass does.  Running the
// sweeper concurrently with user confirm/cancel is safe; whichever
// transaction commits first wins and the other side observes the new
// status.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper builds a sweeper driving the engine's expiry path every
// interval.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{engine: engine, interval: interval}
}

// Run blocks, sweeping on a ticker until ctx is cancelled.  Errors are
// logged and the loop keeps going; a failed pass retries at the next
// tick.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.engine.ReleaseExpired(ctx)
			if err != nil {
				log.Printf("sweeper: release expired holds: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: released %d expired booking(s)", n)
			}
		}
	}
}
