package caught

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/dbx"
	"github.com/joao-paulo-santos/bloqedex/internal/timex"
)

const caughtColumns = `id, temporary, user_id, pokeapi_id, caught_at, note, favorite, nickname`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts or overwrites a record by id.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.CaughtPokemon) error {
	query := `INSERT INTO caught_pokemon
			(id, temporary, user_id, pokeapi_id, caught_at, note, favorite, nickname)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				temporary = excluded.temporary,
				user_id = excluded.user_id,
				pokeapi_id = excluded.pokeapi_id,
				caught_at = excluded.caught_at,
				note = excluded.note,
				favorite = excluded.favorite,
				nickname = excluded.nickname
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Temporary, c.UserID, c.PokeapiID,
		c.CaughtAt.UTC().Format(timex.SQLiteTime), c.Note, c.Favorite, c.Nickname)
	if err != nil {
		return fmt.Errorf("failed to upsert caught pokemon %d: %w", c.ID, err)
	}
	return nil
}

func scanCaught(row interface{ Scan(...any) error }) (*models.CaughtPokemon, error) {
	var c models.CaughtPokemon
	var caughtAt string
	err := row.Scan(&c.ID, &c.Temporary, &c.UserID, &c.PokeapiID, &caughtAt, &c.Note, &c.Favorite, &c.Nickname)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, caughtAt)
	if err != nil {
		return nil, fmt.Errorf("parse caught_at %q: %w", caughtAt, err)
	}
	c.CaughtAt = t
	return &c, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.CaughtPokemon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+caughtColumns+` FROM caught_pokemon WHERE id = ?`, id)
	c, err := scanCaught(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query caught pokemon: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.CaughtPokemon, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query caught pokemon list: %w", err)
	}
	defer rows.Close()

	var result []models.CaughtPokemon
	for rows.Next() {
		c, err := scanCaught(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.CaughtPokemon, error) {
	return r.list(ctx,
		`SELECT `+caughtColumns+` FROM caught_pokemon WHERE user_id = ? ORDER BY caught_at DESC, id LIMIT ? OFFSET ?`,
		userID, limit, offset)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM caught_pokemon WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count caught pokemon: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountFavorites(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM caught_pokemon WHERE user_id = ? AND favorite = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// GetByUserAndPokeapiID lists every record for the pair. Confirmed records
// sort before temporary ones, then by ascending id, which is exactly the
// keep-preference order the reconciler uses.
func (r *SQLiteRepository) GetByUserAndPokeapiID(ctx context.Context, userID string, pokeapiID int64) ([]models.CaughtPokemon, error) {
	return r.list(ctx,
		`SELECT `+caughtColumns+` FROM caught_pokemon WHERE user_id = ? AND pokeapi_id = ? ORDER BY temporary, id`,
		userID, pokeapiID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM caught_pokemon WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete caught pokemon %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByUserAndPokeapiID(ctx context.Context, userID string, pokeapiID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM caught_pokemon WHERE user_id = ? AND pokeapi_id = ?`, userID, pokeapiID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete caught pokemon for pokeapi id %d: %w", pokeapiID, err)
	}
	return res.RowsAffected()
}
