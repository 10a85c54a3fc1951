package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// EventWorker processes lifecycle event jobs from the River queue.
// For now it logs the event; this is where host notifications and
// staff review queue fan-out will hang off.
type EventWorker struct {
	river.WorkerDefaults[EventJobArgs]
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventJobArgs]) error {
	slog.InfoContext(ctx, "processing event",
		"event", job.Args.Event,
		"property_id", job.Args.PropertyID,
		"owner_id", job.Args.OwnerID,
		"approval_status", job.Args.ApprovalStatus,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
