package client

import (
	"context"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// Client is the remote Bloqedex API surface consumed by the services.
// Implementations must honor context cancellation and bound every call with
// a timeout; a hung call is indistinguishable from a connectivity failure.
type Client interface {
	Close() error

	// Ping probes GET /health. Any non-error response means reachable.
	Ping(ctx context.Context) error

	// SetToken installs the bearer credential used on authenticated calls.
	SetToken(token string)
	// ClearToken removes the bearer credential.
	ClearToken()

	Login(ctx context.Context, username, password string) (*models.Session, error)
	Register(ctx context.Context, username, email, password string) (*models.Session, error)
	Me(ctx context.Context) (*models.User, error)

	ListPokemon(ctx context.Context, page, pageSize int) (*models.PokemonPage, error)
	GetPokemon(ctx context.Context, pokeapiID int64) (*models.Pokemon, error)
	SearchPokemon(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error)

	ListCaught(ctx context.Context, page, pageSize int) (*models.CaughtPage, error)
	Catch(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error)
	CatchBulk(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error)
	Release(ctx context.Context, id int64) error
	ReleaseBulkByPokeapiID(ctx context.Context, pokeapiIDs []int64) error
	UpdateCaught(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error)
	Stats(ctx context.Context) (*models.PokedexStats, error)

	CreateShare(ctx context.Context, pokeapiIDs []int64) (*models.Share, error)
	GetShare(ctx context.Context, token string) (*models.Share, error)
	MyShares(ctx context.Context) ([]models.Share, error)
}
