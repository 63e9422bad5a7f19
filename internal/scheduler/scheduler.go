// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrUnknownJob is returned by Trigger for a name that was never added.
var ErrUnknownJob = errors.New("unknown job")

// jobTimeout bounds a single run.
const jobTimeout = 5 * time.Minute

// Job is a named unit of periodic work.
type Job struct {
	Name        string
	Description string
	Schedule    string // standard 5-field cron expression or a descriptor like "@hourly"
	Run         func(ctx context.Context) error
}

// Observer is notified after every run. *metrics.Metrics implements it.
type Observer interface {
	ObserveJob(job string, took time.Duration, err error)
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"lastRun,omitzero"`
	LastError   string    `json:"lastError,omitempty"`
	NextRun     time.Time `json:"nextRun,omitzero"`
}

type entry struct {
	job     Job
	id      cron.EntryID
	mu      sync.Mutex // serializes runs of this job
	lastRun time.Time
	lastErr error
}

// Scheduler runs jobs on their cron schedules. Runs of the same job never
// overlap; a tick that arrives while the job is still running is skipped.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	observer Observer

	mu   sync.RWMutex
	jobs map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler. observer may be nil.
func New(logger *slog.Logger, observer Observer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		logger:   logger,
		observer: observer,
		jobs:     make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add registers a job. It fails on an invalid schedule or a duplicate name.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job requires a name and a run function")
	}
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", job.Name, job.Schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	e := &entry{job: job}
	id, err := s.cron.AddFunc(job.Schedule, func() { s.run(e, false) })
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	e.id = id
	s.jobs[job.Name] = e
	return nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs a job immediately and waits for it, returning its error.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(e, true)
}

func (s *Scheduler) run(e *entry, wait bool) error {
	if wait {
		e.mu.Lock()
	} else if !e.mu.TryLock() {
		s.logger.Debug("job still running, skipping tick", "job", e.job.Name)
		return nil
	}
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	err := e.job.Run(ctx)
	took := time.Since(start)

	e.lastRun = start.UTC()
	e.lastErr = err

	if s.observer != nil {
		s.observer.ObserveJob(e.job.Name, took, err)
	}
	if err != nil {
		s.logger.Error("scheduled job failed", "category", "system", "job", e.job.Name, "error", err)
	} else {
		s.logger.Debug("scheduled job finished", "job", e.job.Name, "took", took)
	}
	return err
}

// Jobs returns registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, e := range s.jobs {
		info := JobInfo{
			Name:        e.job.Name,
			Description: e.job.Description,
			Schedule:    e.job.Schedule,
			NextRun:     s.cron.Entry(e.id).Next,
		}
		if e.mu.TryLock() {
			info.LastRun = e.lastRun
			if e.lastErr != nil {
				info.LastError = e.lastErr.Error()
			}
			e.mu.Unlock()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
