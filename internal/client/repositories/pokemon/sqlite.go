package pokemon

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/dbx"
)

const pokemonColumns = `id, pokeapi_id, name, height, weight, base_experience, sprite_url, artwork_url, types, stats`

// SQLiteRepository implements Repository on a local SQLite database.
// It is intended to be constructed once and shared: the id-set cache lives
// on the instance and is kept in sync with every write.
type SQLiteRepository struct {
	db *sql.DB

	mu     sync.RWMutex
	ids    map[int64]struct{}
	loaded bool
}

// NewSQLiteRepository returns a repository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts or overwrites an entry by pokeapi_id. The local primary key
// of an existing row is preserved.
func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Pokemon) error {
	if err := r.upsert(ctx, r.db, p); err != nil {
		return err
	}
	r.addID(p.PokeapiID)
	return nil
}

// SeedBatch upserts a batch of entries in one transaction, so a partially
// failed seed leaves no trace.
func (r *SQLiteRepository) SeedBatch(ctx context.Context, batch []models.Pokemon) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range batch {
			if err := r.upsert(ctx, tx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i := range batch {
		r.addID(batch[i].PokeapiID)
	}
	return nil
}

func (r *SQLiteRepository) upsert(ctx context.Context, db dbx.DBTX, p *models.Pokemon) error {
	types, err := json.Marshal(p.Types)
	if err != nil {
		return fmt.Errorf("marshal types: %w", err)
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	query := `INSERT INTO pokemon
			(pokeapi_id, name, height, weight, base_experience, sprite_url, artwork_url, types, stats)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(pokeapi_id) DO UPDATE SET
				name = excluded.name,
				height = excluded.height,
				weight = excluded.weight,
				base_experience = excluded.base_experience,
				sprite_url = excluded.sprite_url,
				artwork_url = excluded.artwork_url,
				types = excluded.types,
				stats = excluded.stats
	`
	_, err = db.ExecContext(ctx, query,
		p.PokeapiID, p.Name, p.Height, p.Weight, p.BaseExperience,
		p.SpriteURL, p.ArtworkURL, string(types), string(stats))
	if err != nil {
		return fmt.Errorf("failed to upsert pokemon %d: %w", p.PokeapiID, err)
	}
	return nil
}

func scanPokemon(row interface{ Scan(...any) error }) (*models.Pokemon, error) {
	var p models.Pokemon
	var types, stats string
	err := row.Scan(&p.ID, &p.PokeapiID, &p.Name, &p.Height, &p.Weight,
		&p.BaseExperience, &p.SpriteURL, &p.ArtworkURL, &types, &stats)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(types), &p.Types); err != nil {
		return nil, fmt.Errorf("unmarshal types: %w", err)
	}
	if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...any) (*models.Pokemon, error) {
	p, err := scanPokemon(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pokemon: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Pokemon, error) {
	return r.getOne(ctx, `SELECT `+pokemonColumns+` FROM pokemon WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByPokeapiID(ctx context.Context, pokeapiID int64) (*models.Pokemon, error) {
	return r.getOne(ctx, `SELECT `+pokemonColumns+` FROM pokemon WHERE pokeapi_id = ?`, pokeapiID)
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Pokemon, error) {
	return r.getOne(ctx, `SELECT `+pokemonColumns+` FROM pokemon WHERE name = ?`, name)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Pokemon, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pokemon list: %w", err)
	}
	defer rows.Close()

	var result []models.Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) List(ctx context.Context, offset, limit int) ([]models.Pokemon, error) {
	return r.list(ctx,
		`SELECT `+pokemonColumns+` FROM pokemon ORDER BY pokeapi_id LIMIT ? OFFSET ?`,
		limit, offset)
}

func (r *SQLiteRepository) Search(ctx context.Context, q string, offset, limit int) ([]models.Pokemon, error) {
	return r.list(ctx,
		`SELECT `+pokemonColumns+` FROM pokemon WHERE name LIKE ? ORDER BY pokeapi_id LIMIT ? OFFSET ?`,
		"%"+q+"%", limit, offset)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pokemon: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountSearch(ctx context.Context, q string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon WHERE name LIKE ?`, "%"+q+"%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pokemon search: %w", err)
	}
	return n, nil
}

// RangeFetch returns present entries with pokeapi_id in [from, to], ordered.
func (r *SQLiteRepository) RangeFetch(ctx context.Context, from, to int64) ([]models.Pokemon, error) {
	return r.list(ctx,
		`SELECT `+pokemonColumns+` FROM pokemon WHERE pokeapi_id BETWEEN ? AND ? ORDER BY pokeapi_id`,
		from, to)
}

// RangeContains reports whether every pokeapi_id in [from, to] is present.
func (r *SQLiteRepository) RangeContains(ctx context.Context, from, to int64) (bool, error) {
	if to < from {
		return false, nil
	}
	if err := r.ensureIDs(ctx); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id := from; id <= to; id++ {
		if _, ok := r.ids[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// LongestConsecutive returns the largest N with every id 1..N present,
// assuming external identifiers are densely assigned starting at 1.
func (r *SQLiteRepository) LongestConsecutive(ctx context.Context) (int64, error) {
	if err := r.ensureIDs(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for {
		if _, ok := r.ids[n+1]; !ok {
			return n, nil
		}
		n++
	}
}

// PokeapiIDs returns a copy of the identifier set.
func (r *SQLiteRepository) PokeapiIDs(ctx context.Context) (map[int64]struct{}, error) {
	if err := r.ensureIDs(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]struct{}, len(r.ids))
	for id := range r.ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// ensureIDs lazily materializes the identifier set from the database.
func (r *SQLiteRepository) ensureIDs(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT pokeapi_id FROM pokemon`)
	if err != nil {
		return fmt.Errorf("load pokeapi id set: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.ids = ids
		r.loaded = true
	}
	return nil
}

func (r *SQLiteRepository) addID(pokeapiID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		// Set not materialized yet; it will pick the id up on first load.
		return
	}
	r.ids[pokeapiID] = struct{}{}
}
