// Package actions persists the pending-action queue: mutation intents
// recorded while the remote service was unreachable, waiting to be replayed
// by the sync manager.
package actions

import (
	"context"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// Repository describes storage operations for pending actions.
type Repository interface {
	// Add stores a new action.
	Add(ctx context.Context, a *models.PendingAction) error

	// GetByID returns an action, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.PendingAction, error)

	// ListPending returns pending actions in creation order.
	ListPending(ctx context.Context) ([]models.PendingAction, error)

	// ListByStatus returns actions with the given status in creation order.
	ListByStatus(ctx context.Context, status models.ActionStatus) ([]models.PendingAction, error)

	// MarkStatus transitions a still-pending action to the given status and
	// reports whether the transition happened. A false result means another
	// pass settled the action first; callers must then treat it as already
	// processed.
	MarkStatus(ctx context.Context, id string, status models.ActionStatus) (bool, error)

	// PurgeSettled deletes completed/failed actions created before cutoff
	// and reports how many were removed.
	PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error)

	// Count reports the total number of stored actions.
	Count(ctx context.Context) (int64, error)
}
