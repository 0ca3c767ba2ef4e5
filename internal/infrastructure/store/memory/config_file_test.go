package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infragen/internal/domain/entity"
)

func TestConfigFileRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigFileRepo()

	require.NoError(t, repo.SaveFiles(ctx, nil))
	require.NoError(t, repo.SaveFiles(ctx, []*entity.ConfigFile{
		entity.NewTerraformFile("job-b", "first", nil),
		entity.NewTerraformFile("job-a", "other", []string{"Environment"}),
	}))
	// same name replaces
	require.NoError(t, repo.SaveFiles(ctx, []*entity.ConfigFile{
		entity.NewTerraformFile("job-b", "second", nil),
	}))

	files, err := repo.GetFilesByJobID(ctx, "job-b")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "second", files[0].Content)
	assert.Equal(t, entity.MainFileName, files[0].Name)

	ids, err := repo.ListJobIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-a", "job-b"}, ids)

	require.NoError(t, repo.DeleteByJobID(ctx, "job-b"))
	files, err = repo.GetFilesByJobID(ctx, "job-b")
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = repo.GetFilesByJobID(ctx, "job-a")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"Environment"}, files[0].MissingTags)
}
