package jobs

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

// NewMemoryStore returns a Store that keeps jobs in process memory.
// Jobs do not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{jobs: make(map[uuid.UUID]*Job)}
}

func (s *memoryStore) Create(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := job.clone()
	s.jobs[job.ID] = &j
	return nil
}

func (s *memoryStore) Find(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := j.clone()
	return &out, nil
}

func (s *memoryStore) List(_ context.Context) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.clone())
	}

	slices.SortFunc(out, func(a, b Job) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return out, nil
}

func (s *memoryStore) Record(_ context.Context, jobID, documentID uuid.UUID, outcome Outcome) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}

	if err := record(j, documentID, outcome, time.Now().UTC()); err != nil {
		return nil, err
	}

	out := j.clone()
	return &out, nil
}
