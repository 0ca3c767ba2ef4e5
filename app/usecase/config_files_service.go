package usecase

import (
	"context"
	"fmt"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
)

type ConfigFilesUseCase interface {
	GetFilesByJobID(ctx context.Context, jobID string) ([]*entity.ConfigFile, error)
	ListJobIDs(ctx context.Context) ([]string, error)
}

type ConfigService struct {
	repo repository.ConfigFileRepository
}

func NewConfigService(repo repository.ConfigFileRepository) ConfigFilesUseCase {
	return &ConfigService{repo: repo}
}

var _ ConfigFilesUseCase = (*ConfigService)(nil)

func (s *ConfigService) GetFilesByJobID(ctx context.Context, jobID string) ([]*entity.ConfigFile, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobID is required")
	}
	files, err := s.repo.GetFilesByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get files for job %s: %w", jobID, err)
	}
	return files, nil
}

func (s *ConfigService) ListJobIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListJobIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs with files: %w", err)
	}
	return ids, nil
}
