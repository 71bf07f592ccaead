package domain

import "context"

// Scheduler runs jobs on cron expressions evaluated in a fixed time zone.
type Scheduler interface {
	Schedule(name, spec string, job func()) error
	Start()
	// Stop prevents further runs and waits for running jobs until ctx is done.
	Stop(ctx context.Context) error
}
