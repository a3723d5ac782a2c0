package ports

import (
	"context"
)

// Job is a one-shot workspace task started from the command line
type Job interface {
	// Name identifies the job in logs
	Name() string

	// Execute runs the job to completion
	Execute(ctx context.Context) error
}
