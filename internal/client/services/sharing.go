package services

import (
	"context"
	"fmt"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
)

// SharingService publishes parts of the collection under shareable tokens.
// Shares live on the server, so every operation requires connectivity;
// offline callers get a connectivity-class error and nothing is queued.
type SharingService interface {
	// Create publishes a share of the given external ids, all of which must
	// be in the caller's collection.
	Create(ctx context.Context, pokeapiIDs []int64) (*models.Share, error)

	// Get resolves a share token, the caller's own or anyone else's.
	Get(ctx context.Context, token string) (*models.Share, error)

	// Mine lists the caller's shares.
	Mine(ctx context.Context) ([]models.Share, error)
}

type sharingService struct {
	client     client.Client
	caughtRepo caught.Repository
	auth       AuthService
}

// NewSharingService constructs a SharingService.
func NewSharingService(c client.Client, caughtRepo caught.Repository, auth AuthService) SharingService {
	return &sharingService{client: c, caughtRepo: caughtRepo, auth: auth}
}

func (s *sharingService) Create(ctx context.Context, pokeapiIDs []int64) (*models.Share, error) {
	if len(pokeapiIDs) == 0 {
		return nil, fmt.Errorf("share needs at least one entry")
	}
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Reject ids the user does not own before bothering the server.
	for _, id := range pokeapiIDs {
		recs, err := s.caughtRepo.GetByUserAndPokeapiID(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("ownership check: %w", err)
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%w: pokeapi id %d not in collection", client.ErrNotFound, id)
		}
	}

	return s.client.CreateShare(ctx, pokeapiIDs)
}

func (s *sharingService) Get(ctx context.Context, token string) (*models.Share, error) {
	return s.client.GetShare(ctx, token)
}

func (s *sharingService) Mine(ctx context.Context) ([]models.Share, error) {
	return s.client.MyShares(ctx)
}
