package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/internal/relation/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func activeRelation(caregiverID id.CaregiverID, seniorID id.SeniorID, createdAt time.Time) *models.CaregiverRelation {
	return models.NewActive(caregiverID, seniorID, "family", "", "", createdAt)
}

func TestInMemory_OneRelationPerPair(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-A", baseTime)))

	// Same pair under a different relation id still conflicts.
	duplicate := models.NewPending("req-123", "cg-1", "SNR-A", "Nurse", "", baseTime)
	err := store.Create(ctx, duplicate)
	require.ErrorIs(t, err, sentinel.ErrConflict)

	// Same caregiver, different senior is fine.
	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-B", baseTime)))
}

func TestInMemory_FindByPair(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	relation := activeRelation("cg-1", "SNR-A", baseTime)
	require.NoError(t, store.Create(ctx, relation))

	found, err := store.FindByPair(ctx, "cg-1", "SNR-A")
	require.NoError(t, err)
	assert.Equal(t, relation.ID, found.ID)

	_, err = store.FindByPair(ctx, "cg-2", "SNR-A")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemory_ListsAreOrderedByCreation(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, activeRelation("cg-2", "SNR-A", baseTime.Add(time.Hour))))
	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-A", baseTime)))
	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-B", baseTime.Add(2*time.Hour))))

	bySenior, err := store.ListBySenior(ctx, "SNR-A")
	require.NoError(t, err)
	require.Len(t, bySenior, 2)
	assert.Equal(t, id.CaregiverID("cg-1"), bySenior[0].CaregiverID)
	assert.Equal(t, id.CaregiverID("cg-2"), bySenior[1].CaregiverID)

	byCaregiver, err := store.ListByCaregiver(ctx, "cg-1")
	require.NoError(t, err)
	require.Len(t, byCaregiver, 2)
	assert.Equal(t, id.SeniorID("SNR-A"), byCaregiver[0].SeniorID)
	assert.Equal(t, id.SeniorID("SNR-B"), byCaregiver[1].SeniorID)
}

func TestInMemory_ConcurrentDecisionsLastWriteWins(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	pending := models.NewPending("req-123", "cg-1", "SNR-A", "Nurse", "", baseTime)
	require.NoError(t, store.Create(ctx, pending))

	approved := *pending
	approved.ApplyApproval("approver-1", models.FullPermissions(), baseTime.Add(time.Minute))
	rejected := *pending
	rejected.ApplyRejection("approver-2", baseTime.Add(2*time.Minute))

	require.NoError(t, store.Update(ctx, &approved))
	require.NoError(t, store.Update(ctx, &rejected))

	found, err := store.FindByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, found.Status)
	assert.Equal(t, id.CaregiverID("approver-2"), found.ApproverID)
}

func TestInMemory_DeleteClearsPairIndex(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	relation := activeRelation("cg-1", "SNR-A", baseTime)
	require.NoError(t, store.Create(ctx, relation))
	require.NoError(t, store.Delete(ctx, relation.ID))

	// The pair is free again after deletion.
	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-A", baseTime)))

	require.ErrorIs(t, store.Delete(ctx, "nope"), sentinel.ErrNotFound)
}

func TestInMemory_DeleteBySenior(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-A", baseTime)))
	require.NoError(t, store.Create(ctx, activeRelation("cg-2", "SNR-A", baseTime)))
	require.NoError(t, store.Create(ctx, activeRelation("cg-1", "SNR-B", baseTime)))

	deleted, err := store.DeleteBySenior(ctx, "SNR-A")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := store.ListByCaregiver(ctx, "cg-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, id.SeniorID("SNR-B"), remaining[0].SeniorID)
}
