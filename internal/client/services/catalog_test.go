package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

func TestCatalogListMirrorsThenServesOffline(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	remote := []models.Pokemon{catalogEntry(1, "bulbasaur"), catalogEntry(2, "ivysaur")}
	h.fake.listFn = func(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
		return &models.PokemonPage{Items: remote, Page: page, PageSize: pageSize, TotalCount: 151, TotalPages: 76}, nil
	}

	page, err := h.catalog.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	// Kill the connection; the same page must come back from the mirror.
	h.fake.listFn = nil
	h.catalog = NewCatalogService(h.fake, h.pokemonRepo, newCache(), h.log)

	offline, err := h.catalog.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, offline.Items, 2)
	assert.Equal(t, "bulbasaur", offline.Items[0].Name)
	assert.Equal(t, "ivysaur", offline.Items[1].Name)
}

func TestCatalogListRangeFastPathSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	batch := make([]models.Pokemon, 0, 20)
	for i := int64(1); i <= 20; i++ {
		batch = append(batch, catalogEntry(i, "mon"))
	}
	require.NoError(t, h.pokemonRepo.SeedBatch(ctx, batch))

	page, err := h.catalog.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.Zero(t, h.fake.calls["ListPokemon"], "fully mirrored page must not hit the network")
}

func TestCatalogListIncompleteRangeGoesRemote(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// 19 of 20 present; the gap forces a remote call.
	batch := make([]models.Pokemon, 0, 19)
	for i := int64(1); i <= 19; i++ {
		batch = append(batch, catalogEntry(i, "mon"))
	}
	require.NoError(t, h.pokemonRepo.SeedBatch(ctx, batch))

	h.fake.listFn = func(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
		items := make([]models.Pokemon, 0, 20)
		for i := int64(1); i <= 20; i++ {
			items = append(items, catalogEntry(i, "mon"))
		}
		return &models.PokemonPage{Items: items, Page: page, PageSize: pageSize, TotalCount: 20, TotalPages: 1}, nil
	}

	_, err := h.catalog.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, h.fake.calls["ListPokemon"])

	// The remote response filled the gap; the next read stays local.
	h.catalog = NewCatalogService(h.fake, h.pokemonRepo, newCache(), h.log)
	_, err = h.catalog.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, h.fake.calls["ListPokemon"])
}

func TestCatalogGetMirrorsRemoteEntry(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.fake.getFn = func(ctx context.Context, pokeapiID int64) (*models.Pokemon, error) {
		e := catalogEntry(pokeapiID, "pikachu")
		return &e, nil
	}

	got, err := h.catalog.Get(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", got.Name)

	// Offline now; the entry must come from the mirror.
	h.fake.getFn = nil
	again, err := h.catalog.Get(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", again.Name)
	assert.Equal(t, 1, h.fake.calls["GetPokemon"])
}

func TestCatalogGetOfflineUnmirrored(t *testing.T) {
	h := newHarness(t)
	_, err := h.catalog.Get(context.Background(), 150)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}

func TestCatalogSearchFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.pokemonRepo.SeedBatch(ctx, []models.Pokemon{
		catalogEntry(4, "charmander"),
		catalogEntry(5, "charmeleon"),
		catalogEntry(7, "squirtle"),
	}))

	page, err := h.catalog.Search(ctx, "char", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.TotalCount)
}

func TestCatalogListCachesRemotePages(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.fake.listFn = func(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
		// Sparse ids keep the range fast path from answering first.
		return &models.PokemonPage{
			Items:      []models.Pokemon{catalogEntry(100, "voltorb"), catalogEntry(200, "misdreavus")},
			Page:       page, PageSize: pageSize, TotalCount: 151, TotalPages: 76,
		}, nil
	}

	_, err := h.catalog.List(ctx, 3, 2)
	require.NoError(t, err)
	_, err = h.catalog.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, h.fake.calls["ListPokemon"], "second read must be served from cache")
}
