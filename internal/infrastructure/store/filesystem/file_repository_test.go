package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infragen/internal/domain/entity"
)

func TestNewFileRepository_CreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "output")

	repo, err := NewFileRepository(base)
	require.NoError(t, err)
	assert.Equal(t, base, repo.GetBasePath())

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewFileRepository_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewFileRepository(path)
	assert.Error(t, err)
}

func TestFileRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	files := []*entity.ConfigFile{entity.NewTerraformFile("job-1", "resource \"aws_vpc\" \"main\" {}\n", nil)}
	require.NoError(t, repo.SaveFiles(ctx, files, "job-1"))
	assert.Error(t, repo.SaveFiles(ctx, files, ""))

	content, err := os.ReadFile(filepath.Join(repo.GetBasePath(), "job-1", entity.MainFileName))
	require.NoError(t, err)
	assert.Equal(t, files[0].Content, string(content))

	got, err := repo.GetFiles(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, files[0].Content, got[0].Content)
	assert.Equal(t, entity.FileTypeTerraform, got[0].Type)
	assert.Equal(t, "job-1", got[0].JobID)

	_, err = repo.GetFiles(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrJobNotFound)
}

func TestFileRepository_SaveLatest(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.SaveLatest(ctx, "first"))
	require.NoError(t, repo.SaveLatest(ctx, "second"))

	content, err := os.ReadFile(filepath.Join(repo.GetBasePath(), entity.MainFileName))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestFileRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"job-b", "job-a"} {
		require.NoError(t, repo.SaveFiles(ctx, []*entity.ConfigFile{entity.NewTerraformFile(id, "x", nil)}, id))
	}
	require.NoError(t, repo.SaveLatest(ctx, "x"))
	require.NoError(t, os.Mkdir(filepath.Join(repo.GetBasePath(), "stray"), 0o755))

	ids, err := repo.ListRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-a", "job-b"}, ids)

	require.NoError(t, repo.DeleteRequest(ctx, "job-a"))
	ids, err = repo.ListRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-b"}, ids)
}
