package production

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process job source, used when no database is
// configured and in tests. Jobs are returned in insertion order.
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs []Job
}

// NewMemoryRepository returns a store seeded with jobs. Jobs without an id get one.
func NewMemoryRepository(jobs ...Job) *MemoryRepository {
	m := &MemoryRepository{}
	for _, j := range jobs {
		m.Put(j)
	}
	return m
}

// Put inserts or replaces a job snapshot by id and returns the stored copy.
func (m *MemoryRepository) Put(job Job) Job {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == job.ID {
			m.jobs[i] = job
			return job
		}
	}
	m.jobs = append(m.jobs, job)
	return job
}

func (m *MemoryRepository) GetByID(_ context.Context, id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, j := range m.jobs {
		if j.ID == id {
			j := j
			return &j, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

func (m *MemoryRepository) ListByOrder(_ context.Context, orderID string) ([]Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Job
	for _, j := range m.jobs {
		if j.OrderID == orderID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListScheduledBetween(_ context.Context, from, to time.Time) ([]Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Job
	for _, j := range m.jobs {
		if Overlaps(j, from, to) {
			out = append(out, j)
		}
	}
	return out, nil
}
