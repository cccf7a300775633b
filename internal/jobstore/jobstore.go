// Package jobstore holds every research job in process memory behind
// a single protected map, the same shape as the teacher's
// internal/crawl.Manager: a mutex-guarded map keyed by job id, with
// reads allowed to run concurrently and writes serialized.
package jobstore

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"keywordscope/internal/metrics"
	"keywordscope/internal/model"
)

// DefaultTTL is how long a job survives after creation before the
// sweeper removes it (spec: 24h).
const DefaultTTL = 24 * time.Hour

// DefaultSweepInterval is how often the background sweeper runs.
const DefaultSweepInterval = time.Hour

// Store is the in-memory job table. Zero value is not usable; build
// one with New.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job

	ttl           time.Duration
	sweepInterval time.Duration
	log           *slog.Logger

	stop chan struct{}
	once sync.Once
}

// New builds a Store with the given retention TTL and sweep interval.
// Zero values fall back to DefaultTTL/DefaultSweepInterval.
func New(ttl, sweepInterval time.Duration, log *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		jobs:          make(map[string]*model.Job),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Create allocates a new job in StatusProcessing and stores it under a
// fresh UUIDv4, sweeping expired jobs first (spec: "JobStore sweeps
// every hour and on each job creation").
func (s *Store) Create(url, country, requestedLanguage, resolvedLanguage string, opts model.Options) *model.Job {
	now := time.Now().UTC()
	job := &model.Job{
		ID:                uuid.NewString(),
		URL:               url,
		Country:           country,
		RequestedLanguage: requestedLanguage,
		ResolvedLanguage:  resolvedLanguage,
		Options:           opts,
		Status:            model.StatusProcessing,
		Progress:          0,
		Step:              "validating",
		CreatedAt:         now,
		UpdatedAt:         now,
		InternalMetadata:  make(map[string]any),
	}

	s.Sweep()

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	metrics.RecordJobCreated()
	return job
}

// Get returns a snapshot copy of the job so callers never mutate
// shared state without going through Update.
func (s *Store) Get(id string) (model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return *job, true
}

// Update mutates the job with the given id under the store's write
// lock and stamps UpdatedAt. Reports whether the job existed.
func (s *Store) Update(id string, mutate func(*model.Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	mutate(job)
	job.UpdatedAt = time.Now().UTC()
	return true
}

// Cancel marks a processing job cancelled and removes it from the
// store in one step, per spec: "DELETE on a processing job sets
// status=cancelled and removes it from the store." Returns the job as
// it stood at cancellation and whether it was found.
func (s *Store) Cancel(id string) (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	job.RequestCancel()
	job.Status = model.StatusCancelled
	snapshot := *job
	delete(s.jobs, id)
	return snapshot, true
}

// Sweep removes jobs older than the store's TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := time.Now().UTC().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("jobstore sweep removed expired jobs", "count", removed, "ttl", s.ttl)
		metrics.RecordRetentionSweep(removed)
	}
	return removed
}

// StartSweeper runs Sweep on sweepInterval until Stop is called. Safe
// to call once per Store.
func (s *Store) StartSweeper() {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the background sweeper goroutine. Safe to call multiple
// times.
func (s *Store) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Len reports how many jobs are currently stored (used by tests).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
