package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/actions"
	"github.com/joao-paulo-santos/bloqedex/internal/common"
)

func TestPokedexCatchOnline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.fake.catchFn = func(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error) {
		return &models.CaughtPokemon{ID: 42, UserID: testUserID, PokeapiID: pokeapiID, CaughtAt: time.Now().UTC()}, nil
	}

	rec, err := h.pokedex.Catch(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.ID)
	assert.False(t, rec.Temporary)

	stored, err := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Temporary)

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "online catch must not queue anything")
}

func TestPokedexCatchOfflineQueuesAction(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	rec, err := h.pokedex.Catch(ctx, 25)
	require.NoError(t, err)
	assert.True(t, rec.Temporary)
	assert.GreaterOrEqual(t, rec.ID, common.TemporaryIDFloor)

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.ActionCatch, pending[0].Kind)

	var p models.CatchPayload
	require.NoError(t, pending[0].DecodePayload(&p))
	assert.Equal(t, rec.ID, p.TempID)
	assert.Equal(t, int64(25), p.PokeapiID)
	assert.Equal(t, testUserID, p.UserID)
}

func TestPokedexCatchDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.pokedex.Catch(ctx, 25)
	require.NoError(t, err)

	_, err = h.pokedex.Catch(ctx, 25)
	assert.ErrorIs(t, err, ErrAlreadyCaught)

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "the rejected catch must not queue a second action")
}

func TestPokedexCatchServerRejectionNotQueued(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.fake.catchFn = func(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error) {
		return nil, &client.APIError{Status: 422, Message: "no such pokemon"}
	}

	_, err := h.pokedex.Catch(ctx, 9001)
	require.Error(t, err)
	assert.False(t, client.IsConnectivityError(err))

	pending, perr := h.actionsRepo.ListPending(ctx)
	require.NoError(t, perr)
	assert.Empty(t, pending, "validation failures are not replayable")
}

func TestPokedexCatchBulkOffline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// 7 is already owned, only 1 and 4 are new.
	_, err := h.pokedex.Catch(ctx, 7)
	require.NoError(t, err)

	recs, err := h.pokedex.CatchBulk(ctx, []int64{1, 4, 7})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.NotEqual(t, recs[0].ID, recs[1].ID, "temporary ids must be unique within a batch")

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.ActionBulkCatch, pending[1].Kind)

	var p models.BulkCatchPayload
	require.NoError(t, pending[1].DecodePayload(&p))
	assert.Equal(t, []int64{1, 4}, p.PokeapiIDs)
	require.Len(t, p.TempIDs, 2)
}

func TestPokedexReleaseOnline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 42, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(),
	}))
	h.fake.releaseFn = func(ctx context.Context, id int64) error { return nil }

	require.NoError(t, h.pokedex.Release(ctx, 42))

	stored, err := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPokedexReleaseOfflineQueuesAction(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 42, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(),
	}))

	require.NoError(t, h.pokedex.Release(ctx, 42))

	stored, err := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, stored, "release applies locally even while offline")

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	var p models.ReleasePayload
	require.NoError(t, pending[0].DecodePayload(&p))
	assert.Equal(t, int64(42), p.ID)
	assert.False(t, p.Temporary)
	assert.Equal(t, int64(25), p.PokeapiID)
}

func TestPokedexReleaseTemporaryRecord(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	rec, err := h.pokedex.Catch(ctx, 25)
	require.NoError(t, err)
	require.True(t, rec.Temporary)

	require.NoError(t, h.pokedex.Release(ctx, rec.ID))

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	var p models.ReleasePayload
	require.NoError(t, pending[1].DecodePayload(&p))
	assert.True(t, p.Temporary)
	assert.Equal(t, int64(25), p.PokeapiID, "temporary releases must carry the external id for replay")
}

func TestPokedexReleaseUnknownRecord(t *testing.T) {
	h := newHarness(t)
	err := h.pokedex.Release(context.Background(), 999)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestPokedexUpdateOfflineAppliesLocally(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 42, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(),
	}))

	note := "rainy route 25"
	fav := true
	rec, err := h.pokedex.Update(ctx, 42, models.CaughtUpdate{Note: &note, Favorite: &fav})
	require.NoError(t, err)
	assert.Equal(t, note, rec.Note)
	assert.True(t, rec.Favorite)

	stored, err := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, note, stored.Note)

	pending, err := h.actionsRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.ActionUpdate, pending[0].Kind)
}

func TestPokedexListOfflinePaginatesLocally(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	base := time.Now().UTC()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
			ID: i, UserID: testUserID, PokeapiID: i, CaughtAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := h.pokedex.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)
	// Newest first.
	assert.Equal(t, int64(5), page.Items[0].PokeapiID)

	last, err := h.pokedex.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPreviousPage)
}

func TestPokedexStatsOffline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.pokemonRepo.SeedBatch(ctx, []models.Pokemon{
		catalogEntry(1, "bulbasaur"), catalogEntry(2, "ivysaur"),
		catalogEntry(3, "venusaur"), catalogEntry(4, "charmander"),
	}))
	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 1, UserID: testUserID, PokeapiID: 1, CaughtAt: time.Now().UTC(), Favorite: true,
	}))
	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 2, UserID: testUserID, PokeapiID: 2, CaughtAt: time.Now().UTC(),
	}))

	stats, err := h.pokedex.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCaught)
	assert.Equal(t, int64(1), stats.TotalFavorites)
	assert.Equal(t, int64(4), stats.TotalAvailable)
	assert.InDelta(t, 50.0, stats.CompletionPercentage, 0.01)
}

// brokenQueue fails every Add, simulating a full or read-only disk.
type brokenQueue struct {
	actions.Repository
}

func (brokenQueue) Add(ctx context.Context, a *models.PendingAction) error {
	return errors.New("disk full")
}

func TestPokedexCatchOfflineRollsBackWhenQueueFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	svc := NewPokedexService(h.fake, h.caughtRepo, brokenQueue{h.actionsRepo}, h.pokemonRepo, h.auth, h.log)

	_, err := svc.Catch(ctx, 25)
	require.Error(t, err)

	// No orphaned optimistic record: nothing would ever replay it.
	recs, lerr := h.caughtRepo.GetByUserAndPokeapiID(ctx, testUserID, 25)
	require.NoError(t, lerr)
	assert.Empty(t, recs)
}

func TestPokedexReleaseOfflineRestoresRecordWhenQueueFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 42, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(), Nickname: "Sparky",
	}))
	svc := NewPokedexService(h.fake, h.caughtRepo, brokenQueue{h.actionsRepo}, h.pokemonRepo, h.auth, h.log)

	err := svc.Release(ctx, 42)
	require.Error(t, err)

	kept, lerr := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, lerr)
	require.NotNil(t, kept)
	assert.Equal(t, "Sparky", kept.Nickname)
}

func TestPokedexUpdateOfflineRevertsWhenQueueFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.caughtRepo.Upsert(ctx, &models.CaughtPokemon{
		ID: 42, UserID: testUserID, PokeapiID: 25, CaughtAt: time.Now().UTC(), Note: "original",
	}))
	svc := NewPokedexService(h.fake, h.caughtRepo, brokenQueue{h.actionsRepo}, h.pokemonRepo, h.auth, h.log)

	note := "edited offline"
	_, err := svc.Update(ctx, 42, models.CaughtUpdate{Note: &note})
	require.Error(t, err)

	kept, lerr := h.caughtRepo.GetByID(ctx, 42)
	require.NoError(t, lerr)
	require.NotNil(t, kept)
	assert.Equal(t, "original", kept.Note)
}
