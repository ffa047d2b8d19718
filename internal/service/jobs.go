package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// jobStore keeps delayed alignment requests in memory until they are
// collected or expire. The service is otherwise stateless; this mirrors the
// try-later dispatch model where the caller polls a jobs route for the
// result.
type jobStore struct {
	mu   sync.Mutex
	jobs map[string]job
	ttl  time.Duration
}

type job struct {
	params  alignParams
	created time.Time
}

func newJobStore(ttl time.Duration) *jobStore {
	return &jobStore{
		jobs: make(map[string]job),
		ttl:  ttl,
	}
}

// put stores validated parameters and returns the new job ID.
func (s *jobStore) put(params alignParams) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = job{params: params, created: time.Now()}
	s.mu.Unlock()
	return id
}

// get retrieves a job; collected jobs stay until they expire, so a result
// can be fetched more than once.
func (s *jobStore) get(id string) (alignParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return alignParams{}, false
	}
	return j.params, true
}

// evictExpired drops jobs older than the TTL and reports how many went.
func (s *jobStore) evictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, j := range s.jobs {
		if now.Sub(j.created) > s.ttl {
			delete(s.jobs, id)
			evicted++
		}
	}
	return evicted
}

func (s *jobStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
