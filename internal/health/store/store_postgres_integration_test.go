//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/internal/health/models"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/testutil/containers"
)

func TestPostgres_RecordLifecycle(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.DB)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older := &models.HealthRecord{
		SeniorID: "SNR-A", Type: models.TypeBloodPressure,
		Systolic: 118, Diastolic: 76, RecordedBy: "cg-1",
		RecordedAt: now, CreatedAt: now,
	}
	newer := &models.HealthRecord{
		SeniorID: "SNR-A", Type: models.TypeBloodPressure,
		Systolic: 132, Diastolic: 84, HeartRate: 70, RecordedBy: "cg-1",
		RecordedAt: now.Add(time.Hour), CreatedAt: now.Add(time.Hour),
	}
	sugar := &models.HealthRecord{
		SeniorID: "SNR-A", Type: models.TypeBloodSugar,
		BloodSugar: 5.6, RecordedBy: "cg-1",
		RecordedAt: now, CreatedAt: now,
	}
	for _, record := range []*models.HealthRecord{older, newer, sugar} {
		require.NoError(t, store.Create(ctx, record))
		require.False(t, record.ID.IsEmpty())
	}

	t.Run("find round trip", func(t *testing.T) {
		found, err := store.FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, 132, found.Systolic)
		assert.Equal(t, 70, found.HeartRate)
	})

	t.Run("list newest first", func(t *testing.T) {
		records, err := store.ListBySenior(ctx, "SNR-A")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, newer.ID, records[0].ID)
	})

	t.Run("list by type", func(t *testing.T) {
		records, err := store.ListBySeniorAndType(ctx, "SNR-A", models.TypeBloodSugar)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.InDelta(t, 5.6, records[0].BloodSugar, 0.001)
	})

	t.Run("latest by type", func(t *testing.T) {
		latest, err := store.LatestBySeniorAndType(ctx, "SNR-A", models.TypeBloodPressure)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, latest.ID)

		_, err = store.LatestBySeniorAndType(ctx, "SNR-A", models.TypeWeight)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("delete by senior", func(t *testing.T) {
		deleted, err := store.DeleteBySenior(ctx, "SNR-A")
		require.NoError(t, err)
		assert.Equal(t, 3, deleted)
	})
}
