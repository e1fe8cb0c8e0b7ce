package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository/postgres"
	"github.com/dom/nonprofit-site/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := testutil.NewEventBuilder().WithTitle("Older").CreatedAt(base.Add(-time.Hour)).Build(t, testDB.DB)
	newer := testutil.NewEventBuilder().WithTitle("Newer").CreatedAt(base).Build(t, testDB.DB)

	t.Run("list newest first", func(t *testing.T) {
		events, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, newer.ID, events[0].ID)
		assert.Equal(t, older.ID, events[1].ID)
	})

	t.Run("scope round trips", func(t *testing.T) {
		got, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.Scope.Data(), got.Scope.Data())
	})

	t.Run("update keeps created_at", func(t *testing.T) {
		edit := *older
		edit.Title = "Older, renamed"
		edit.CreatedAt = time.Time{}
		edit.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, repo.Update(ctx, &edit))

		got, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Older, renamed", got.Title)
		assert.True(t, got.CreatedAt.Equal(older.CreatedAt))
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		ghost := testutil.NewEventBuilder().Input()
		ghost.ID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, newer.ID))
		events, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestProjectRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewProjectRepository(testDB.DB)
	ctx := context.Background()

	project := testutil.NewProjectBuilder().WithStatus(domain.ProjectStatusActive).Build(t, testDB.DB)

	got, err := repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusActive, got.Status)

	got.Status = domain.ProjectStatusCompleted
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusCompleted, again.Status)

	require.NoError(t, repo.Delete(ctx, project.ID))
	_, err = repo.GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestContactRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewContactRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC()
	first := testutil.NewContactBuilder().WithSubject("First").At(now.Add(-2*time.Hour)).Build(t, testDB.DB)
	second := testutil.NewContactBuilder().WithSubject("Second").At(now).Build(t, testDB.DB)

	contacts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, second.ID, contacts[0].ID)
	assert.Equal(t, first.ID, contacts[1].ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrNotFound)
}
