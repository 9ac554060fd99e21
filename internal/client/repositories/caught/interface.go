// Package caught persists ownership records (caught Pokémon) in the local
// SQLite store. Records may carry a server-assigned or a temporary
// identifier; the temporary flag records provenance explicitly so the
// reconciler can supersede optimistic records without guessing.
package caught

import (
	"context"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// Repository describes storage and query operations for ownership records.
// "Not found" is reported as (nil, nil) / empty slice, never as an error.
type Repository interface {
	// Upsert inserts or overwrites a record by its identifier.
	Upsert(ctx context.Context, c *models.CaughtPokemon) error

	// GetByID returns a record by identifier.
	GetByID(ctx context.Context, id int64) (*models.CaughtPokemon, error)

	// ListByUser returns a user's records ordered by capture time descending.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.CaughtPokemon, error)

	// CountByUser reports how many records a user has.
	CountByUser(ctx context.Context, userID string) (int64, error)

	// CountFavorites reports how many of a user's records are favorites.
	CountFavorites(ctx context.Context, userID string) (int64, error)

	// GetByUserAndPokeapiID returns every record for the (user, externalId)
	// pair, ordered confirmed-first then by ascending identifier. More than
	// one element means a duplicate awaiting reconciliation.
	GetByUserAndPokeapiID(ctx context.Context, userID string, pokeapiID int64) ([]models.CaughtPokemon, error)

	// Delete removes a record by identifier.
	Delete(ctx context.Context, id int64) error

	// DeleteByUserAndPokeapiID removes every record for the pair and reports
	// how many rows were removed.
	DeleteByUserAndPokeapiID(ctx context.Context, userID string, pokeapiID int64) (int64, error)
}
