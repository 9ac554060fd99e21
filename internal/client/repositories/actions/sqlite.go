package actions

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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, a *models.PendingAction) error {
	query := `INSERT INTO pending_actions (id, kind, payload, created_at, status)
			VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, string(a.Kind), string(a.Payload),
		a.CreatedAt.UTC().Format(timex.SQLiteTime), string(a.Status))
	if err != nil {
		return fmt.Errorf("failed to insert pending action: %w", err)
	}
	return nil
}

func scanAction(row interface{ Scan(...any) error }) (*models.PendingAction, error) {
	var a models.PendingAction
	var kind, payload, createdAt, status string
	if err := row.Scan(&a.ID, &kind, &payload, &createdAt, &status); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	a.Kind = models.ActionKind(kind)
	a.Payload = []byte(payload)
	a.CreatedAt = t
	a.Status = models.ActionStatus(status)
	return &a, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.PendingAction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, payload, created_at, status FROM pending_actions WHERE id = ?`, id)
	a, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pending action: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) list(ctx context.Context, status models.ActionStatus) ([]models.PendingAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, payload, created_at, status FROM pending_actions
		 WHERE status = ? ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query pending actions: %w", err)
	}
	defer rows.Close()

	var result []models.PendingAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]models.PendingAction, error) {
	return r.list(ctx, models.ActionPending)
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, status models.ActionStatus) ([]models.PendingAction, error) {
	return r.list(ctx, status)
}

// MarkStatus transitions an action out of pending. The WHERE clause is the
// reentrancy guard: concurrent sync passes race here, and only one of them
// observes a row transition.
func (r *SQLiteRepository) MarkStatus(ctx context.Context, id string, status models.ActionStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pending_actions SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(models.ActionPending))
	if err != nil {
		return false, fmt.Errorf("failed to mark action %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_actions WHERE status IN (?, ?) AND created_at < ?`,
		string(models.ActionCompleted), string(models.ActionFailed),
		cutoff.UTC().Format(timex.SQLiteTime))
	if err != nil {
		return 0, fmt.Errorf("failed to purge settled actions: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending actions: %w", err)
	}
	return n, nil
}
