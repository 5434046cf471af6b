package notify

import (
	"context"

	"github.com/Sidddev15/geo-alert/internal/event"
)

// Notifier renders and transmits an alert for a validated ping.
// A failed send must not affect the already-persisted event; callers
// log the error and acknowledge the request with emailed:false.
type Notifier interface {
	Notify(ctx context.Context, ev event.Incoming) error
}
