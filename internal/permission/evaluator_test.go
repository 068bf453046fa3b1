package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profilemodels "carelink/internal/profile/models"
	profilestore "carelink/internal/profile/store"
	relationmodels "carelink/internal/relation/models"
	relationstore "carelink/internal/relation/store"
	id "carelink/pkg/domain"
)

const (
	seniorID  = id.SeniorID("SNR-TEST00000001")
	accountID = id.AccountID("acct-senior-1")
)

func newEvaluator(t *testing.T) (*Evaluator, *relationstore.InMemory) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	profiles := profilestore.NewInMemory(profilestore.WithIDGenerator(func() id.SeniorID { return seniorID }))
	relations := relationstore.NewInMemory()

	profile, err := profilemodels.NewCaregiverCreated("Grandpa", 82, "male", "", "caregiver-1", now)
	require.NoError(t, err)
	require.NoError(t, profiles.Create(ctx, profile))
	profile.BindAccount(accountID, now)
	require.NoError(t, profiles.Update(ctx, profile))

	return NewEvaluator(relations, profiles), relations
}

func seedRelation(t *testing.T, relations *relationstore.InMemory, caregiverID id.CaregiverID, status relationmodels.Status, perms relationmodels.Permissions) {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	relation := relationmodels.NewActive(caregiverID, seniorID, "family", "", "", now)
	relation.Status = status
	relation.Permissions = perms
	require.NoError(t, relations.Create(context.Background(), relation))
}

func TestEvaluator_FlagsAreIndependent(t *testing.T) {
	evaluator, relations := newEvaluator(t)
	seedRelation(t, relations, "caregiver-2", relationmodels.StatusActive,
		relationmodels.Permissions{ViewHealth: true, EditReminders: true})
	ctx := context.Background()

	checks := []struct {
		name string
		fn   func(context.Context, id.CaregiverID, id.SeniorID) (bool, error)
		want bool
	}{
		{"view health", evaluator.CanViewHealth, true},
		{"edit health", evaluator.CanEditHealth, false},
		{"view reminders", evaluator.CanViewReminders, false},
		{"edit reminders", evaluator.CanEditReminders, true},
		{"approve requests", evaluator.CanApproveRequests, false},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(ctx, "caregiver-2", seniorID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluator_NonActiveRelationGrantsNothing(t *testing.T) {
	ctx := context.Background()

	for _, status := range []relationmodels.Status{relationmodels.StatusPending, relationmodels.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			evaluator, relations := newEvaluator(t)
			// Flags set but status non-active: nothing is granted.
			seedRelation(t, relations, "caregiver-2", status, relationmodels.FullPermissions())

			got, err := evaluator.CanViewHealth(ctx, "caregiver-2", seniorID)
			require.NoError(t, err)
			assert.False(t, got)
		})
	}
}

func TestEvaluator_SeniorOwnAccountHasFullAccess(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	ctx := context.Background()

	for _, capability := range []relationmodels.Capability{
		relationmodels.CapViewHealth,
		relationmodels.CapEditHealth,
		relationmodels.CapViewReminders,
		relationmodels.CapEditReminders,
		relationmodels.CapApproveRequests,
	} {
		got, err := evaluator.Can(ctx, id.CaregiverID(accountID), seniorID, capability)
		require.NoError(t, err)
		assert.True(t, got, "capability %s", capability)
	}
}

func TestEvaluator_MissingPartiesDenyWithoutError(t *testing.T) {
	evaluator, _ := newEvaluator(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		requester id.CaregiverID
		senior    id.SeniorID
	}{
		{"no relation", "stranger", seniorID},
		{"unknown senior", "caregiver-1", "SNR-DOESNOTEXIST"},
		{"empty requester", "", seniorID},
		{"empty senior", "caregiver-1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluator.CanViewHealth(ctx, tc.requester, tc.senior)
			require.NoError(t, err)
			assert.False(t, got)
		})
	}
}
