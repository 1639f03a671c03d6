// Package scheduler runs the dataset reload, integrity check and backup jobs.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work. Name identifies it in logs and run history.
type Job interface {
	Run() error
	Name() string
}

// JobRun is the run history of a single job
type JobRun struct {
	Job          string    `json:"job"`
	Schedule     string    `json:"schedule,omitempty"` // Empty for jobs only run on demand
	Runs         int       `json:"runs"`
	Failures     int       `json:"failures"`
	LastRun      time.Time `json:"last_run,omitempty"`
	LastDuration string    `json:"last_duration,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// Scheduler runs jobs on cron schedules and records every run.
// A scheduled run is skipped while the previous run of the same job is still going,
// and a panicking job is logged instead of taking the process down.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu   sync.Mutex
	runs map[string]*JobRun
}

// New creates a new scheduler with six-field (seconds first) schedules
func New(log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	adapter := cronLogger{log: log}

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		log:  log,
		runs: make(map[string]*JobRun),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", s.Entries()).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs, e.g. an in-flight backup upload
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under schedule, e.g. "@every 1h" for reloads or
// "0 30 2 * * *" for the nightly backup.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.execute(job) }); err != nil {
		return err
	}

	s.mu.Lock()
	s.entry(job.Name()).Schedule = schedule
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// Entries returns the number of scheduled jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunNow executes a job immediately, outside its schedule, and records the run
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.execute(job)
}

// Runs returns the run history of every known job, sorted by name
func (s *Scheduler) Runs() []JobRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobRun, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}

func (s *Scheduler) execute(job Job) error {
	start := time.Now()
	err := job.Run()
	duration := time.Since(start)

	s.mu.Lock()
	r := s.entry(job.Name())
	r.Runs++
	r.LastRun = start
	r.LastDuration = duration.String()
	r.LastError = ""
	if err != nil {
		r.Failures++
		r.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Dur("duration_ms", duration).Msg("Job failed")
		return err
	}
	s.log.Debug().Str("job", job.Name()).Dur("duration_ms", duration).Msg("Job completed")
	return nil
}

// entry must be called with mu held
func (s *Scheduler) entry(name string) *JobRun {
	r, ok := s.runs[name]
	if !ok {
		r = &JobRun{Job: name}
		s.runs[name] = r
	}
	return r
}

// cronLogger routes cron's own messages (skipped overlaps, recovered panics) to zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
