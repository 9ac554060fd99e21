package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

func TestSharingCreateChecksOwnership(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sharing := NewSharingService(h.fake, h.caughtRepo, h.auth)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 1, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(),
	}))

	h.fake.createShrFn = func(ctx context.Context, pokeapiIDs []int64) (*models.Share, error) {
		return &models.Share{Token: "tok-1", UserID: testUserID, PokeapiIDs: pokeapiIDs}, nil
	}

	share, err := sharing.Create(ctx, []int64{25})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", share.Token)

	// 150 is not in the collection.
	_, err = sharing.Create(ctx, []int64{25, 150})
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, 1, h.fake.calls["CreateShare"], "unowned ids must be rejected before the server is called")
}

func TestSharingCreateOfflineNotQueued(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sharing := NewSharingService(h.fake, h.caughtRepo, h.auth)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 1, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(),
	}))

	_, err := sharing.Create(ctx, []int64{25})
	require.Error(t, err)
	assert.True(t, client.IsConnectivityError(err))

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSharingGetAndMine(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sharing := NewSharingService(h.fake, h.caughtRepo, h.auth)

	h.fake.getShareFn = func(ctx context.Context, token string) (*models.Share, error) {
		return &models.Share{Token: token, UserID: "someone-else", PokeapiIDs: []int64{1, 2}}, nil
	}
	h.fake.mySharesFn = func(ctx context.Context) ([]models.Share, error) {
		return []models.Share{{Token: "tok-1"}, {Token: "tok-2"}}, nil
	}

	share, err := sharing.Get(ctx, "tok-x")
	require.NoError(t, err)
	assert.Equal(t, "tok-x", share.Token)

	mine, err := sharing.Mine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
