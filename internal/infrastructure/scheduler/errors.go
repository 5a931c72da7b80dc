package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a job spec cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrSchedulerRunning is returned when registering after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")
)
