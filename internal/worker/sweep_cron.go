package worker

// sweep_cron.go
// Background goroutine that periodically cancels registration and
// conversation flows left idle past their timeouts. Sharing the router's
// per-phone locks keeps the sweep from racing in-flight messages.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is the slice of the router the cron needs.
type Sweeper interface {
	SweepExpired(now time.Time) int
}

// StartSweepCron launches a goroutine that ticks at the given interval and
// expires idle flows. It respects the context for graceful shutdown.
func StartSweepCron(ctx context.Context, sweeper Sweeper, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("sweep_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweep_cron: shutting down")
				return
			case <-ticker.C:
				if n := sweeper.SweepExpired(time.Now()); n > 0 {
					log.Info().Int("cancelled", n).Msg("sweep_cron: expired flows cancelled")
				}
			}
		}
	}()
}
