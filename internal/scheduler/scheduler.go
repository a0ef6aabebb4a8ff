// Package scheduler runs the process's background jobs on gocron.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexivanou/cityshare-api/internal/metrics"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobInfo is a snapshot of a job's schedule and run history.
type JobInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Schedule   string    `json:"schedule"`
	Status     JobStatus `json:"status"`
	Singleton  bool      `json:"singleton"`
	LastRun    time.Time `json:"lastRun"`
	NextRun    time.Time `json:"nextRun"`
	RunCount   int       `json:"runCount"`
	ErrorCount int       `json:"errorCount"`
	LastError  string    `json:"lastError,omitempty"`
}

// JobFunc is the work of a job. ctx is cancelled when the scheduler stops.
type JobFunc func(ctx context.Context) error

type entry struct {
	info JobInfo
	job  gocron.Job
}

// Scheduler manages background jobs.
type Scheduler struct {
	gocron gocron.Scheduler
	clock  clockwork.Clock
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*entry
}

// New creates a scheduler. Jobs do not run until Start.
func New(clock clockwork.Clock, logger *zap.Logger) (*Scheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLogger(newLogger(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: g,
		clock:  clock,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*entry),
	}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.gocron.Start()
	s.logger.Info("Job scheduler started", zap.Int("jobs", len(s.Jobs())))
}

// Stop cancels running jobs' context and waits for them to return.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping job scheduler")
	s.cancel()
	if err := s.gocron.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// AddJob runs fn every interval. A run still in progress when the next one is due
// makes gocron skip that tick.
func (s *Scheduler) AddJob(id, name string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", id)
	}
	return s.add(id, name, "every "+interval.String(), true,
		gocron.DurationJob(interval), fn)
}

// AddOneShot runs fn once after delay.
func (s *Scheduler) AddOneShot(id, name string, delay time.Duration, fn JobFunc) error {
	start := gocron.OneTimeJobStartImmediately()
	schedule := "once"
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(s.clock.Now().Add(delay))
		schedule = "once after " + delay.String()
	}
	return s.add(id, name, schedule, false, gocron.OneTimeJob(start), fn)
}

func (s *Scheduler) add(id, name, schedule string, singleton bool, def gocron.JobDefinition, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %s already exists", id)
	}

	opts := []gocron.JobOption{gocron.WithName(id)}
	if singleton {
		opts = append(opts, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}

	job, err := s.gocron.NewJob(def, gocron.NewTask(s.wrap(id, fn)), opts...)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.jobs[id] = &entry{
		info: JobInfo{
			ID:        id,
			Name:      name,
			Schedule:  schedule,
			Status:    JobStatusScheduled,
			Singleton: singleton,
		},
		job: job,
	}
	s.logger.Info("Added job to scheduler",
		zap.String("id", id), zap.String("schedule", schedule), zap.Bool("singleton", singleton))
	return nil
}

// RunNow triggers a job outside its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	e, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	if err := e.job.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// Jobs returns a snapshot of every job ordered by id.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, e := range s.jobs {
		info := e.info
		if next, err := e.job.NextRun(); err == nil {
			info.NextRun = next
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scheduler) wrap(id string, fn JobFunc) func() {
	return func() {
		start := s.clock.Now()
		s.update(id, func(info *JobInfo) {
			info.Status = JobStatusRunning
			info.LastRun = start
			info.RunCount++
		})

		err := fn(s.ctx)
		metrics.SchedulerJobDuration.WithLabelValues(id).Observe(s.clock.Since(start).Seconds())

		if err != nil {
			metrics.SchedulerJobRuns.WithLabelValues(id, "error").Inc()
			s.logger.Error("Job failed", zap.String("id", id), zap.Error(err))
			s.update(id, func(info *JobInfo) {
				info.Status = JobStatusFailed
				info.ErrorCount++
				info.LastError = err.Error()
			})
			return
		}

		metrics.SchedulerJobRuns.WithLabelValues(id, "success").Inc()
		s.logger.Debug("Job completed", zap.String("id", id), zap.Duration("took", s.clock.Since(start)))
		s.update(id, func(info *JobInfo) {
			info.Status = JobStatusCompleted
			info.LastError = ""
		})
	}
}

func (s *Scheduler) update(id string, fn func(*JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.jobs[id]; ok {
		fn(&e.info)
	}
}
