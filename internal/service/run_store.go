package service

import (
	"sync"
	"time"

	"github.com/andhika-lab/uni-timetable-api/internal/dto"
	"github.com/andhika-lab/uni-timetable-api/internal/timetable"
)

type generationRun struct {
	ID           string
	Status       string
	Request      dto.GenerateTimetableRequest
	EnqueuedAt   time.Time
	FinishedAt   time.Time
	TotalEntries int
	Validation   *timetable.ValidationReport
	Failure      *timetable.PlacementFailure
	Err          string
}

func (r generationRun) toResponse() *dto.RunStatusResponse {
	resp := &dto.RunStatusResponse{
		RunID:        r.ID,
		Status:       r.Status,
		EnqueuedAt:   r.EnqueuedAt,
		TotalEntries: r.TotalEntries,
		Validation:   r.Validation,
		Failure:      r.Failure,
		Error:        r.Err,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}

// runStore keeps async run records in memory. Finished runs expire after the
// configured TTL; queued and running runs never expire.
type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]generationRun
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{ttl: ttl, items: make(map[string]generationRun)}
}

func (s *runStore) Save(run generationRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[run.ID] = run
	s.sweepLocked()
}

func (s *runStore) Get(id string) (generationRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.items[id]
	if !ok || s.expired(run) {
		return generationRun{}, false
	}
	return run, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *runStore) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.items[id]
	if !ok {
		return
	}
	run.Status = dto.RunStatusRunning
	s.items[id] = run
}

func (s *runStore) SetSucceeded(id string, totalEntries int, report timetable.ValidationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.items[id]
	if !ok {
		return
	}
	run.Status = dto.RunStatusSucceeded
	run.FinishedAt = time.Now().UTC()
	run.TotalEntries = totalEntries
	run.Validation = &report
	s.items[id] = run
}

func (s *runStore) SetFailed(id, message string, failure *timetable.PlacementFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.items[id]
	if !ok {
		return
	}
	run.Status = dto.RunStatusFailed
	run.FinishedAt = time.Now().UTC()
	run.Err = message
	run.Failure = failure
	s.items[id] = run
}

func (s *runStore) expired(run generationRun) bool {
	return !run.FinishedAt.IsZero() && time.Since(run.FinishedAt) > s.ttl
}

func (s *runStore) sweepLocked() {
	for id, run := range s.items {
		if s.expired(run) {
			delete(s.items, id)
		}
	}
}
