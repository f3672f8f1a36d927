package match

import (
	"context"
	"time"
)

const scanInterval = time.Minute

// StartPeriodicScans drives the reminder lifecycle: one scan per
// minute until ctx is cancelled. Run it in its own goroutine once the
// bot client is up.
func StartPeriodicScans(ctx context.Context, mgr *Manager) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mgr.ScanAndFire(ctx)
		}
	}
}
