//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/internal/profile/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/testutil/containers"
)

func TestPostgres_ProfileLifecycle(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.DB)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	profile, err := models.NewCaregiverCreated("Grandpa", 82, "male", "", "caregiver-1", now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, profile))
	require.False(t, profile.ID.IsEmpty())

	t.Run("duplicate id conflicts", func(t *testing.T) {
		dup, err := models.NewCaregiverCreated("Other", 70, "", "", "caregiver-1", now)
		require.NoError(t, err)
		dup.ID = profile.ID
		require.ErrorIs(t, store.Create(ctx, dup), sentinel.ErrConflict)
	})

	t.Run("find round trip", func(t *testing.T) {
		found, err := store.FindByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grandpa", found.Name)
		assert.Equal(t, 82, found.Age)
		assert.True(t, found.CreatedAt.Equal(now))
	})

	t.Run("bind account via update", func(t *testing.T) {
		profile.BindAccount("acct-1", now.Add(time.Minute))
		require.NoError(t, store.Update(ctx, profile))

		found, err := store.FindByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, id.AccountID("acct-1"), found.AccountID)
	})

	t.Run("delete", func(t *testing.T) {
		count, err := store.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		require.NoError(t, store.Delete(ctx, profile.ID))
		_, err = store.FindByID(ctx, profile.ID)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
		require.ErrorIs(t, store.Delete(ctx, profile.ID), sentinel.ErrNotFound)
	})
}
