// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrJobNotFound is returned when no job is registered under the name
	ErrJobNotFound = errors.New("job not found")
	// ErrDuplicateJob is returned when a name is registered twice
	ErrDuplicateJob = errors.New("job already registered")
)

// JobStatus is the result of the last run of a job
type JobStatus string

const (
	JobStatusNeverRun JobStatus = "NEVER_RUN"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusSuccess  JobStatus = "SUCCESS"
	JobStatusFailed   JobStatus = "FAILED"
)

// Job is a unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f JobFunc) Name() string                  { return f.JobName }
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// JobState describes a registered job
type JobState struct {
	Name       string     `json:"name"`
	Schedule   string     `json:"schedule"`
	Status     JobStatus  `json:"status"`
	LastError  string     `json:"last_error,omitempty"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastTookMs int64      `json:"last_took_ms"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
}

type entry struct {
	job      Job
	schedule string
	id       cron.EntryID
	state    JobState
	running  bool
}

// Scheduler wraps robfig/cron with per-job timeouts, overlap protection and run status
type Scheduler struct {
	cron       *cron.Cron
	logger     *zap.Logger
	jobTimeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Scheduler. jobTimeout <= 0 means 5 minutes.
func New(logger *zap.Logger, jobTimeout time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
		logger:     logger,
		jobTimeout: jobTimeout,
		entries:    make(map[string]*entry),
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// Register schedules job using a standard five-field cron spec or a descriptor such as "@every 1h"
func (s *Scheduler) Register(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	e := &entry{
		job:      job,
		schedule: schedule,
		state:    JobState{Name: name, Schedule: schedule, Status: JobStatusNeverRun},
	}
	id, err := s.cron.AddFunc(schedule, func() { _ = s.execute(s.baseCtx, e) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	e.id = id
	s.entries[name] = e
	s.logger.Info("Scheduled job registered", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

// Start begins running jobs on their schedules
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.entries)))
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	cronCtx := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.cancel()
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// RunNow runs the named job synchronously
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, e)
}

// Jobs returns a snapshot of every registered job
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobState, 0, len(s.entries))
	for _, e := range s.entries {
		st := e.state
		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			st.NextRunAt = &next
		}
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) execute(parent context.Context, e *entry) error {
	s.mu.Lock()
	if e.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping job run, previous run still in progress", zap.String("job", e.job.Name()))
		return nil
	}
	e.running = true
	started := time.Now()
	e.state.Status = JobStatusRunning
	e.state.LastRunAt = &started
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(parent, s.jobTimeout)
	defer cancel()
	err := e.job.Run(ctx)
	took := time.Since(started)

	s.mu.Lock()
	e.running = false
	e.state.LastTookMs = took.Milliseconds()
	if err != nil {
		e.state.Status = JobStatusFailed
		e.state.LastError = err.Error()
	} else {
		e.state.Status = JobStatusSuccess
		e.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled job failed", zap.String("job", e.job.Name()), zap.Duration("took", took), zap.Error(err))
		return err
	}
	s.logger.Info("Scheduled job completed", zap.String("job", e.job.Name()), zap.Duration("took", took))
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
