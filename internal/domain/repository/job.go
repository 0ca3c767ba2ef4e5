package repository

import (
	"context"

	"infragen/internal/domain/entity"
)

// JobRepository is the storage of generation jobs.
// GetByID returns entity.ErrJobNotFound when no job has the id.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	List(ctx context.Context) ([]*entity.Job, error)
	ListByStatus(ctx context.Context, status entity.JobStatus) ([]*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	UpdateStatus(ctx context.Context, id string, status entity.JobStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status entity.JobStatus) (int, error)
}
