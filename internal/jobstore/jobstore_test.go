package jobstore

import (
	"testing"
	"time"

	"keywordscope/internal/model"
)

func newTestStore() *Store {
	return New(time.Hour, time.Hour, nil)
}

func TestCreateAssignsProcessingStatusAndID(t *testing.T) {
	s := newTestStore()
	job := s.Create("https://example.com", "1", "", "en", model.Options{MaxPages: 20})
	if job.ID == "" {
		t.Fatalf("expected a generated job id")
	}
	if job.Status != model.StatusProcessing {
		t.Fatalf("expected StatusProcessing, got %v", job.Status)
	}
	if job.Step != "validating" || job.Progress != 0 {
		t.Fatalf("expected initial step=validating progress=0, got step=%q progress=%d", job.Step, job.Progress)
	}
}

func TestGetReturnsSnapshotNotLiveReference(t *testing.T) {
	s := newTestStore()
	job := s.Create("https://example.com", "1", "", "en", model.Options{})

	got, ok := s.Get(job.ID)
	if !ok {
		t.Fatalf("expected job to be found")
	}
	got.Progress = 99

	fresh, _ := s.Get(job.ID)
	if fresh.Progress == 99 {
		t.Fatalf("expected Get to return a copy, mutation leaked into the store")
	}
}

func TestGetMissingJobReturnsFalse(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Get("does-not-exist"); ok {
		t.Fatalf("expected missing job to report ok=false")
	}
}

func TestUpdateMutatesStoredJobAndBumpsUpdatedAt(t *testing.T) {
	s := newTestStore()
	job := s.Create("https://example.com", "1", "", "en", model.Options{})
	before := job.UpdatedAt

	ok := s.Update(job.ID, func(j *model.Job) {
		j.Progress = 50
		j.Step = "clustering"
	})
	if !ok {
		t.Fatalf("expected Update to find the job")
	}

	got, _ := s.Get(job.ID)
	if got.Progress != 50 || got.Step != "clustering" {
		t.Fatalf("expected mutation to apply, got %+v", got)
	}
	if !got.UpdatedAt.After(before) && got.UpdatedAt != before {
		t.Fatalf("expected UpdatedAt to be stamped")
	}
}

func TestUpdateMissingJobReturnsFalse(t *testing.T) {
	s := newTestStore()
	if s.Update("missing", func(j *model.Job) {}) {
		t.Fatalf("expected Update on a missing job to return false")
	}
}

func TestCancelMarksCancelledAndRemoves(t *testing.T) {
	s := newTestStore()
	job := s.Create("https://example.com", "1", "", "en", model.Options{})

	snapshot, ok := s.Cancel(job.ID)
	if !ok {
		t.Fatalf("expected job to be found for cancellation")
	}
	if snapshot.Status != model.StatusCancelled {
		t.Fatalf("expected StatusCancelled, got %v", snapshot.Status)
	}
	if _, stillThere := s.Get(job.ID); stillThere {
		t.Fatalf("expected cancelled job to be removed from the store")
	}
}

func TestCancelMissingJobReturnsFalse(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Cancel("missing"); ok {
		t.Fatalf("expected Cancel on a missing job to return false")
	}
}

func TestSweepRemovesJobsOlderThanTTL(t *testing.T) {
	s := New(time.Millisecond, time.Hour, nil)
	s.Create("https://example.com", "1", "", "en", model.Options{})

	time.Sleep(5 * time.Millisecond)
	removed := s.Sweep()
	if removed != 1 {
		t.Fatalf("expected 1 job swept, got %d", removed)
	}
	if s.Len() != 0 {
		t.Fatalf("expected store to be empty after sweep, got %d", s.Len())
	}
}

func TestSweepKeepsFreshJobs(t *testing.T) {
	s := New(time.Hour, time.Hour, nil)
	s.Create("https://example.com", "1", "", "en", model.Options{})

	if removed := s.Sweep(); removed != 0 {
		t.Fatalf("expected no jobs swept, got %d", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("expected the fresh job to survive, got %d", s.Len())
	}
}

func TestCreateSweepsExpiredJobsOnCreate(t *testing.T) {
	s := New(time.Millisecond, time.Hour, nil)
	first := s.Create("https://example.com", "1", "", "en", model.Options{})
	time.Sleep(5 * time.Millisecond)

	s.Create("https://example.org", "1", "", "en", model.Options{})

	if _, ok := s.Get(first.ID); ok {
		t.Fatalf("expected the expired first job to be swept on the second Create")
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly the new job to remain, got %d", s.Len())
	}
}
