package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"rcuengine/rcu"
)

// RunDiagnosticsPublisher periodically marshals snapshot() and publishes it
// on this producer, until ctx is cancelled. Used to ship the rcu engine's
// counters to an observability topic separate from the domain event outbox
// carried by jobs/broadcaster.
func RunDiagnosticsPublisher(ctx context.Context, p *Producer, interval time.Duration, snapshot func() rcu.Diagnostics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			body, err := json.Marshal(snapshot())
			if err != nil {
				continue
			}
			if err := p.Send(ctx, nil, body); err != nil {
				log.Printf("[kafka] diagnostics publish failed: %v", err)
			}
		}
	}
}
