package pokemon

import (
	"context"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// Repository describes storage and query operations for catalog entries.
// "Not found" is reported as (nil, nil), never as an error.
type Repository interface {
	// Upsert inserts or overwrites an entry keyed by its PokeapiID.
	Upsert(ctx context.Context, p *models.Pokemon) error

	// SeedBatch upserts a batch of entries in a single transaction.
	SeedBatch(ctx context.Context, batch []models.Pokemon) error

	// GetByID returns an entry by its local primary key.
	GetByID(ctx context.Context, id int64) (*models.Pokemon, error)

	// GetByPokeapiID returns an entry by its external identifier.
	GetByPokeapiID(ctx context.Context, pokeapiID int64) (*models.Pokemon, error)

	// GetByName returns an entry by its exact name.
	GetByName(ctx context.Context, name string) (*models.Pokemon, error)

	// List returns entries ordered by external identifier.
	List(ctx context.Context, offset, limit int) ([]models.Pokemon, error)

	// Search returns entries whose name contains q, ordered by external id.
	Search(ctx context.Context, q string, offset, limit int) ([]models.Pokemon, error)

	// Count reports the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// CountSearch reports how many entries match q.
	CountSearch(ctx context.Context, q string) (int64, error)

	// PokeapiIDs returns a snapshot of all stored external identifiers.
	PokeapiIDs(ctx context.Context) (map[int64]struct{}, error)

	// RangeContains reports whether every external identifier in [from, to]
	// is present locally.
	RangeContains(ctx context.Context, from, to int64) (bool, error)

	// RangeFetch returns the locally present entries with external
	// identifiers in [from, to], ordered by identifier.
	RangeFetch(ctx context.Context, from, to int64) ([]models.Pokemon, error)

	// LongestConsecutive returns the largest N such that every external
	// identifier 1..N is present locally.
	LongestConsecutive(ctx context.Context) (int64, error)
}
