package game

import (
	"context"
	"log"
	"time"
)

// StartReaper runs the background sweep that evicts abandoned sessions:
// anything older than maxAge, or inactive longer than maxIdle, is removed
// from memory. Purely a reclamation measure; connected clients are not
// notified.
func StartReaper(ctx context.Context, registry *Registry, interval, maxAge, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("[REAPER] Started (interval=%v maxAge=%v maxIdle=%v)", interval, maxAge, maxIdle)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[REAPER] Stopped")
				return
			case <-ticker.C:
				total := 0
				for _, engine := range registry.All() {
					total += engine.ReapStale(maxAge, maxIdle)
				}
				if total > 0 {
					log.Printf("[REAPER] Sweep evicted %d sessions", total)
				}
			}
		}
	}()
}
