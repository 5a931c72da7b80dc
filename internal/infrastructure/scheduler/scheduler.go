package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the body of a scheduled job
type JobFunc func(ctx context.Context) error

// JobInfo describes a registered job and its last run
type JobInfo struct {
	Name        string     `json:"name"`
	Spec        string     `json:"spec"`
	Status      JobStatus  `json:"status"`
	LastError   string     `json:"last_error,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastRunTook string     `json:"last_run_took,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
}

type job struct {
	name    string
	spec    string
	fn      JobFunc
	entryID cron.EntryID

	status    JobStatus
	lastError string
	lastRunAt *time.Time
	lastTook  time.Duration
}

// Scheduler runs named jobs on cron specs. A job that is still running when
// its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. timeout bounds each run; zero means no bound.
func New(timeout time.Duration, logger *zap.Logger) *Scheduler {
	cl := &cronLogger{logger: logger.Named("cron")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: timeout,
		logger:  logger,
		jobs:    make(map[string]*job),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Register adds a job. spec is a standard five-field cron expression or a
// descriptor such as "@hourly".
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{name: name, spec: spec, fn: fn, status: JobStatusPending}
	id, err := s.cron.AddFunc(spec, func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("%w: job %s spec %q: %v", ErrInvalidConfig, name, spec, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start begins firing jobs in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels in-flight runs and waits for them to return or for ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(j)
}

func (s *Scheduler) run(j *job) error {
	ctx := s.baseCtx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	s.mu.Lock()
	j.status = JobStatusRunning
	s.mu.Unlock()

	err := j.fn(ctx)
	took := time.Since(started)

	s.mu.Lock()
	j.lastRunAt = &started
	j.lastTook = took
	if err != nil {
		j.status = JobStatusFailed
		j.lastError = err.Error()
	} else {
		j.status = JobStatusSuccess
		j.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", j.name),
			zap.Duration("took", took),
			zap.Error(err))
		return err
	}
	s.logger.Info("Scheduled job completed",
		zap.String("job", j.name),
		zap.Duration("took", took))
	return nil
}

// Jobs returns a snapshot of the registered jobs, sorted by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		info := JobInfo{
			Name:      j.name,
			Spec:      j.spec,
			Status:    j.status,
			LastError: j.lastError,
			LastRunAt: j.lastRunAt,
		}
		if j.lastRunAt != nil {
			info.LastRunTook = j.lastTook.String()
		}
		if next := s.cron.Entry(j.entryID).Next; !next.IsZero() {
			info.NextRunAt = &next
		}
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
