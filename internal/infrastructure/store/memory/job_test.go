package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infragen/internal/domain/entity"
)

func TestJobRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepo()

	job := entity.NewJob("2 servers")
	require.NoError(t, repo.Create(ctx, job))
	assert.Error(t, repo.Create(ctx, job), "duplicate id")

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Description, got.Description)
	assert.Equal(t, entity.JobStatusPending, got.Status)

	got.Complete(entity.DefaultInfrastructureConfig(), []string{"aws_vpc.main"})
	require.NoError(t, repo.Update(ctx, got))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, stored.Status)
	require.NotNil(t, stored.Infrastructure)
	assert.Equal(t, entity.ProviderAWS, stored.Infrastructure.Provider)
	assert.Equal(t, []string{"aws_vpc.main"}, stored.Resources)

	require.NoError(t, repo.Delete(ctx, job.ID))
	_, err = repo.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, entity.ErrJobNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, job.ID), entity.ErrJobNotFound)
}

func TestJobRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepo()

	job := entity.NewJob("vm")
	require.NoError(t, repo.Create(ctx, job))

	job.Description = "changed by caller"
	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "vm", got.Description)

	got.Description = "changed again"
	again, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "vm", again.Description)
}

func TestJobRepo_StatusQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepo()

	var ids []string
	for i := 0; i < 3; i++ {
		j := entity.NewJob("job")
		require.NoError(t, repo.Create(ctx, j))
		ids = append(ids, j.ID)
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, repo.UpdateStatus(ctx, ids[1], entity.JobStatusRunning))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", entity.JobStatusRunning), entity.ErrJobNotFound)

	pending, err := repo.ListByStatus(ctx, entity.JobStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)

	n, err := repo.CountByStatus(ctx, entity.JobStatusRunning)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].ID)
	assert.Equal(t, ids[2], all[2].ID)
}

func TestJobRepo_UpdateUnknown(t *testing.T) {
	err := NewJobRepo().Update(context.Background(), entity.NewJob("x"))
	assert.ErrorIs(t, err, entity.ErrJobNotFound)
}
