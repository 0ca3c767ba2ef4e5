package usecase

import (
	"context"
	"fmt"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"
)

type JobUsecase interface {
	CreateJob(ctx context.Context, description string) (*entity.Job, error)
	GetJob(ctx context.Context, id string) (*entity.Job, error)
	ListJobs(ctx context.Context) ([]*entity.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
}

var _ JobUsecase = (*JobService)(nil)

type JobService struct {
	jobsRepo   repository.JobRepository
	configRepo repository.ConfigFileRepository
	artifacts  ArtifactStore
}

func NewJobService(
	jr repository.JobRepository,
	cr repository.ConfigFileRepository,
	artifacts ArtifactStore,
) *JobService {
	return &JobService{
		jobsRepo:   jr,
		configRepo: cr,
		artifacts:  artifacts,
	}
}

// CreateJob queues a description for the background worker.
func (u *JobService) CreateJob(ctx context.Context, description string) (*entity.Job, error) {
	if description == "" {
		return nil, entity.ErrEmptyDescription
	}
	job := entity.NewJob(description)
	if err := u.jobsRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	metrics.IncJobStatusChange(string(entity.JobStatusPending))
	return job, nil
}

func (u *JobService) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	job, err := u.jobsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (u *JobService) ListJobs(ctx context.Context) ([]*entity.Job, error) {
	jobs, err := u.jobsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (u *JobService) DeleteJob(ctx context.Context, jobID string) error {
	if _, err := u.jobsRepo.GetByID(ctx, jobID); err != nil {
		return fmt.Errorf("get job %s: %w", jobID, err)
	}
	if err := u.configRepo.DeleteByJobID(ctx, jobID); err != nil {
		return fmt.Errorf("delete config files: %w", err)
	}
	if u.artifacts != nil {
		if err := u.artifacts.DeleteRequest(ctx, jobID); err != nil {
			return fmt.Errorf("delete job directory: %w", err)
		}
	}
	if err := u.jobsRepo.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}
