package memory

import (
	"context"
	"sort"
	"sync"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"
)

type ConfigFileRepo struct {
	mu    sync.RWMutex
	files map[string][]*entity.ConfigFile // by job id
}

func NewConfigFileRepo() repository.ConfigFileRepository {
	return &ConfigFileRepo{files: make(map[string][]*entity.ConfigFile)}
}

// SaveFiles replaces a job's file with the same name, and appends new ones.
func (r *ConfigFileRepo) SaveFiles(ctx context.Context, files []*entity.ConfigFile) error {
	if len(files) == 0 {
		return nil
	}
	metrics.IncDBFileOp("put")

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range files {
		stored := r.files[f.JobID]
		replaced := false
		for i, existing := range stored {
			if existing.Name == f.Name {
				stored[i] = copyFile(f)
				replaced = true
				break
			}
		}
		if !replaced {
			stored = append(stored, copyFile(f))
		}
		r.files[f.JobID] = stored
	}
	return nil
}

func (r *ConfigFileRepo) GetFilesByJobID(ctx context.Context, jobID string) ([]*entity.ConfigFile, error) {
	metrics.IncDBFileOp("get")

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.files[jobID]
	out := make([]*entity.ConfigFile, 0, len(stored))
	for _, f := range stored {
		out = append(out, copyFile(f))
	}
	return out, nil
}

func (r *ConfigFileRepo) ListJobIDs(ctx context.Context) ([]string, error) {
	metrics.IncDBFileOp("list")

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.files))
	for id := range r.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *ConfigFileRepo) DeleteByJobID(ctx context.Context, jobID string) error {
	metrics.IncDBFileOp("delete")

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.files, jobID)
	return nil
}

func copyFile(f *entity.ConfigFile) *entity.ConfigFile {
	c := *f
	if f.MissingTags != nil {
		c.MissingTags = append([]string(nil), f.MissingTags...)
	}
	return &c
}
