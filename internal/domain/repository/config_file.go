package repository

import (
	"context"

	"infragen/internal/domain/entity"
)

type ConfigFileRepository interface {
	SaveFiles(ctx context.Context, files []*entity.ConfigFile) error
	GetFilesByJobID(ctx context.Context, jobID string) ([]*entity.ConfigFile, error)
	ListJobIDs(ctx context.Context) ([]string, error)
	DeleteByJobID(ctx context.Context, jobID string) error
}
