package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"
)

// JobRepo keeps jobs in a map. Jobs are copied on the way in and out so
// callers never share a record with the store.
type JobRepo struct {
	mu   sync.RWMutex
	jobs map[string]*entity.Job
}

func NewJobRepo() repository.JobRepository {
	return &JobRepo{jobs: make(map[string]*entity.Job)}
}

func (r *JobRepo) Create(ctx context.Context, job *entity.Job) error {
	metrics.IncJobsCreated()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	metrics.IncDBFileOp("get")

	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, entity.ErrJobNotFound
	}
	return copyJob(job), nil
}

// List returns jobs oldest first.
func (r *JobRepo) List(ctx context.Context) ([]*entity.Job, error) {
	metrics.IncDBFileOp("list")
	return r.filter(func(*entity.Job) bool { return true }), nil
}

func (r *JobRepo) ListByStatus(ctx context.Context, status entity.JobStatus) ([]*entity.Job, error) {
	metrics.IncDBFileOp("list")
	return r.filter(func(j *entity.Job) bool { return j.Status == status }), nil
}

func (r *JobRepo) Update(ctx context.Context, job *entity.Job) error {
	metrics.IncDBFileOp("put")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; !ok {
		return entity.ErrJobNotFound
	}
	job.UpdatedAt = time.Now()
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id string, status entity.JobStatus) error {
	metrics.IncDBFileOp("put")

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return entity.ErrJobNotFound
	}
	job.UpdateStatus(status)
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBFileOp("delete")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return entity.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *JobRepo) CountByStatus(ctx context.Context, status entity.JobStatus) (int, error) {
	metrics.IncDBFileOp("count")
	return len(r.filter(func(j *entity.Job) bool { return j.Status == status })), nil
}

func (r *JobRepo) filter(keep func(*entity.Job) bool) []*entity.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*entity.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if keep(j) {
			jobs = append(jobs, copyJob(j))
		}
	}
	sort.Slice(jobs, func(a, b int) bool {
		if jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].ID < jobs[b].ID
		}
		return jobs[a].CreatedAt.Before(jobs[b].CreatedAt)
	})
	return jobs
}

func copyJob(j *entity.Job) *entity.Job {
	c := *j
	if j.Infrastructure != nil {
		infra := *j.Infrastructure
		c.Infrastructure = &infra
	}
	if j.Resources != nil {
		c.Resources = append([]string(nil), j.Resources...)
	}
	return &c
}
