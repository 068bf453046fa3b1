//go:build integration

package loginticket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/testutil/containers"
)

func TestRedisStore_RedeemIsOneTime(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ticket-1", "payload", time.Minute))

	payload, err := store.Redeem(ctx, "ticket-1")
	require.NoError(t, err)
	assert.Equal(t, "payload", payload)

	_, err = store.Redeem(ctx, "ticket-1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRedisStore_TicketExpires(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ticket-1", "payload", 500*time.Millisecond))
	time.Sleep(time.Second)

	_, err := store.Redeem(ctx, "ticket-1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
