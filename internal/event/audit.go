package event

import (
	"context"
	"log/slog"
)

// RunAuditLog writes one log line per published event until ctx is done.
func RunAuditLog(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("audit", "event_id", e.ID, "type", e.Type, "actor_id", e.ActorID, "at", e.Timestamp)
		}
	}
}
