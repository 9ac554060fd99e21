package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/joao-paulo-santos/bloqedex/internal/cachex"
	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/actions"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/metadata"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/pokemon"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/profiles"
	"github.com/joao-paulo-santos/bloqedex/internal/common"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
	"github.com/joao-paulo-santos/bloqedex/internal/netx"
)

const testUserID = "user-1"

// fakeClient simulates the remote API. Unset function fields behave as a
// connectivity failure, so a zero fakeClient is an offline server.
type fakeClient struct {
	pingFn       func(ctx context.Context) error
	loginFn      func(ctx context.Context, username, password string) (*models.Session, error)
	registerFn   func(ctx context.Context, username, email, password string) (*models.Session, error)
	meFn         func(ctx context.Context) (*models.User, error)
	listFn       func(ctx context.Context, page, pageSize int) (*models.PokemonPage, error)
	getFn        func(ctx context.Context, pokeapiID int64) (*models.Pokemon, error)
	searchFn     func(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error)
	listCaughtFn func(ctx context.Context, page, pageSize int) (*models.CaughtPage, error)
	catchFn      func(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error)
	catchBulkFn  func(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error)
	releaseFn    func(ctx context.Context, id int64) error
	releaseBlkFn func(ctx context.Context, pokeapiIDs []int64) error
	updateFn     func(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error)
	statsFn      func(ctx context.Context) (*models.PokedexStats, error)
	createShrFn  func(ctx context.Context, pokeapiIDs []int64) (*models.Share, error)
	getShareFn   func(ctx context.Context, token string) (*models.Share, error)
	mySharesFn   func(ctx context.Context) ([]models.Share, error)

	calls map[string]int
	token string
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) record(name string) { f.calls[name]++ }

func (f *fakeClient) Close() error          { return nil }
func (f *fakeClient) SetToken(token string) { f.token = token }
func (f *fakeClient) ClearToken()           { f.token = "" }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.record("Ping")
	if f.pingFn == nil {
		return client.ErrUnavailable
	}
	return f.pingFn(ctx)
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	f.record("Login")
	if f.loginFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.loginFn(ctx, username, password)
}

func (f *fakeClient) Register(ctx context.Context, username, email, password string) (*models.Session, error) {
	f.record("Register")
	if f.registerFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.registerFn(ctx, username, email, password)
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.record("Me")
	if f.meFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.meFn(ctx)
}

func (f *fakeClient) ListPokemon(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
	f.record("ListPokemon")
	if f.listFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.listFn(ctx, page, pageSize)
}

func (f *fakeClient) GetPokemon(ctx context.Context, pokeapiID int64) (*models.Pokemon, error) {
	f.record("GetPokemon")
	if f.getFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.getFn(ctx, pokeapiID)
}

func (f *fakeClient) SearchPokemon(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error) {
	f.record("SearchPokemon")
	if f.searchFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.searchFn(ctx, q, page, pageSize)
}

func (f *fakeClient) ListCaught(ctx context.Context, page, pageSize int) (*models.CaughtPage, error) {
	f.record("ListCaught")
	if f.listCaughtFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.listCaughtFn(ctx, page, pageSize)
}

func (f *fakeClient) Catch(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error) {
	f.record("Catch")
	if f.catchFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.catchFn(ctx, pokeapiID)
}

func (f *fakeClient) CatchBulk(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error) {
	f.record("CatchBulk")
	if f.catchBulkFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.catchBulkFn(ctx, pokeapiIDs)
}

func (f *fakeClient) Release(ctx context.Context, id int64) error {
	f.record("Release")
	if f.releaseFn == nil {
		return client.ErrUnavailable
	}
	return f.releaseFn(ctx, id)
}

func (f *fakeClient) ReleaseBulkByPokeapiID(ctx context.Context, pokeapiIDs []int64) error {
	f.record("ReleaseBulkByPokeapiID")
	if f.releaseBlkFn == nil {
		return client.ErrUnavailable
	}
	return f.releaseBlkFn(ctx, pokeapiIDs)
}

func (f *fakeClient) UpdateCaught(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error) {
	f.record("UpdateCaught")
	if f.updateFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.updateFn(ctx, id, upd)
}

func (f *fakeClient) Stats(ctx context.Context) (*models.PokedexStats, error) {
	f.record("Stats")
	if f.statsFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.statsFn(ctx)
}

func (f *fakeClient) CreateShare(ctx context.Context, pokeapiIDs []int64) (*models.Share, error) {
	f.record("CreateShare")
	if f.createShrFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.createShrFn(ctx, pokeapiIDs)
}

func (f *fakeClient) GetShare(ctx context.Context, token string) (*models.Share, error) {
	f.record("GetShare")
	if f.getShareFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.getShareFn(ctx, token)
}

func (f *fakeClient) MyShares(ctx context.Context) ([]models.Share, error) {
	f.record("MyShares")
	if f.mySharesFn == nil {
		return nil, client.ErrUnavailable
	}
	return f.mySharesFn(ctx)
}

var _ client.Client = (*fakeClient)(nil)

// harness wires the full service stack over an in-memory store and a fake
// remote.
type harness struct {
	fake        *fakeClient
	pokemonRepo pokemon.Repository
	caughtRepo  caught.Repository
	actionsRepo actions.Repository
	auth        AuthService
	pokedex     PokedexService
	catalog     CatalogService
	sync        SyncService
	reconciler  *Reconciler
	log         logging.Logger
}

func testToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	fake := newFakeClient()

	metadataRepo := metadata.NewSQLiteRepository(db)
	profileRepo := profiles.NewSQLiteRepository(db)
	pokemonRepo := pokemon.NewSQLiteRepository(db)
	caughtRepo := caught.NewSQLiteRepository(db)
	actionsRepo := actions.NewSQLiteRepository(db)

	auth := NewAuthService(fake, metadataRepo, profileRepo, log)

	// Establish a session directly: token in the metadata store, profile in
	// the cache.
	raw := testToken(t, testUserID, time.Now().Add(time.Hour))
	require.NoError(t, metadataRepo.Set(ctx, common.MetadataKeyToken, []byte(raw)))
	require.NoError(t, profileRepo.Upsert(ctx, &models.User{ID: testUserID, Username: "ash"}))

	reconciler := NewReconciler(caughtRepo, log)
	oracle := netx.NewOracle(fake, time.Second)

	syncSvc := NewSyncService(fake, actionsRepo, caughtRepo, reconciler, oracle, log).(*syncService)
	// Gate on the fake alone so the host's real interfaces stay out of it.
	syncSvc.online = func(ctx context.Context) bool { return fake.Ping(ctx) == nil }

	return &harness{
		fake:        fake,
		pokemonRepo: pokemonRepo,
		caughtRepo:  caughtRepo,
		actionsRepo: actionsRepo,
		auth:        auth,
		pokedex:     NewPokedexService(fake, caughtRepo, actionsRepo, pokemonRepo, auth, log),
		catalog:     NewCatalogService(fake, pokemonRepo, cachex.New[*models.PokemonPage](time.Minute), log),
		sync:        syncSvc,
		reconciler:  reconciler,
		log:         log,
	}
}

// serverUp makes the fake's health probe succeed so sync passes run.
func (h *harness) serverUp() {
	h.fake.pingFn = func(ctx context.Context) error { return nil }
}

func newCache() *cachex.Cache[*models.PokemonPage] {
	return cachex.New[*models.PokemonPage](time.Minute)
}

func catalogEntry(pokeapiID int64, name string) models.Pokemon {
	return models.Pokemon{
		PokeapiID: pokeapiID,
		Name:      name,
		Types:     []string{"normal"},
		Stats:     []models.Stat{{Name: "speed", Value: 45}},
	}
}
