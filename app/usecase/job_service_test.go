package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infragen/internal/domain/entity"
)

func TestJobService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	job, err := f.jobService.CreateJob(ctx, "3 vm")
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusPending, job.Status)

	got, err := f.jobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 vm", got.Description)

	_, err = f.jobService.CreateJob(ctx, "")
	assert.ErrorIs(t, err, entity.ErrEmptyDescription)

	_, err = f.jobService.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrJobNotFound)

	jobs, err := f.jobService.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestJobService_DeleteJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.generation.Generate(ctx, "1 server")
	require.NoError(t, err)

	require.NoError(t, f.jobService.DeleteJob(ctx, res.JobID))

	_, err = f.jobService.GetJob(ctx, res.JobID)
	assert.ErrorIs(t, err, entity.ErrJobNotFound)

	files, err := f.files.GetFilesByJobID(ctx, res.JobID)
	require.NoError(t, err)
	assert.Empty(t, files)

	ids, err := f.artifacts.ListRequests(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, res.JobID)

	assert.ErrorIs(t, f.jobService.DeleteJob(ctx, res.JobID), entity.ErrJobNotFound)
}

func TestConfigService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewConfigService(f.files)

	res, err := f.generation.Generate(ctx, "a database")
	require.NoError(t, err)

	files, err := svc.GetFilesByJobID(ctx, res.JobID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, entity.MainFileName, files[0].Name)

	_, err = svc.GetFilesByJobID(ctx, "")
	assert.Error(t, err)

	ids, err := svc.ListJobIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{res.JobID}, ids)
}
