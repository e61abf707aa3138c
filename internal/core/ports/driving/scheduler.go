package driving

import "context"

// Scheduler runs the pipeline periodically.
type Scheduler interface {
	// Start runs the pipeline immediately and then on every interval.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop after any in-progress run.
	Stop() error
}
