// Package profiles caches user profiles so the identity survives being
// offline; the cached copy is refreshed opportunistically when online.
package profiles

import (
	"context"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// Repository describes storage operations for cached user profiles.
type Repository interface {
	// Upsert inserts or refreshes a profile by its identifier.
	Upsert(ctx context.Context, u *models.User) error

	// GetByID returns a profile, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
