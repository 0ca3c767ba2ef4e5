package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"infragen/internal/domain/entity"
)

const metadataFile = "metadata.json"

// FileRepository writes generated documents under basePath: one directory per
// job, plus basePath/main.tf holding the most recent document.
type FileRepository struct {
	basePath string
}

type metadata struct {
	JobID      string               `json:"job_id"`
	CreatedAt  time.Time            `json:"created_at"`
	FilesCount int                  `json:"files_count"`
	Files      []*entity.ConfigFile `json:"files"`
}

func NewFileRepository(basePath string) (*FileRepository, error) {
	info, err := os.Stat(basePath)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(basePath, 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", basePath, mkErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", basePath, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %s exists but is not a directory", basePath)
	}

	return &FileRepository{
		basePath: basePath,
	}, nil
}

func (r *FileRepository) GetBasePath() string {
	return r.basePath
}

func (r *FileRepository) SaveFiles(ctx context.Context, files []*entity.ConfigFile, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID is required")
	}
	jobDir := filepath.Join(r.basePath, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}

	for _, file := range files {
		if err := writeFile(filepath.Join(jobDir, filepath.Base(file.Name)), file.Content); err != nil {
			return err
		}
	}

	meta := metadata{
		JobID:      jobID,
		CreatedAt:  time.Now().UTC(),
		FilesCount: len(files),
		Files:      make([]*entity.ConfigFile, 0, len(files)),
	}
	for _, f := range files {
		// content lives next to the metadata, not inside it
		c := *f
		c.Content = ""
		meta.Files = append(meta.Files, &c)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, metadataFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// SaveLatest overwrites basePath/main.tf.
func (r *FileRepository) SaveLatest(ctx context.Context, content string) error {
	return writeFile(filepath.Join(r.basePath, entity.MainFileName), content)
}

func (r *FileRepository) GetFiles(ctx context.Context, jobID string) ([]*entity.ConfigFile, error) {
	data, err := os.ReadFile(filepath.Join(r.basePath, jobID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("files of job %s: %w", jobID, entity.ErrJobNotFound)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	for _, file := range meta.Files {
		content, err := os.ReadFile(filepath.Join(r.basePath, jobID, filepath.Base(file.Name)))
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file.Name, err)
		}
		file.Content = string(content)
	}

	return meta.Files, nil
}

// ListRequests returns the ids of job directories holding a metadata file, sorted.
func (r *FileRepository) ListRequests(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.basePath, e.Name(), metadataFile)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *FileRepository) DeleteRequest(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID is required")
	}
	if err := os.RemoveAll(filepath.Join(r.basePath, jobID)); err != nil {
		return fmt.Errorf("failed to delete job directory: %w", err)
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filepath.Base(path), err)
	}
	return nil
}
