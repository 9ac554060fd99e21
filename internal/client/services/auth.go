package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/metadata"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/profiles"
	"github.com/joao-paulo-santos/bloqedex/internal/client/token"
	"github.com/joao-paulo-santos/bloqedex/internal/common"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
)

// AuthService manages the session: online login/register, restoring a
// persisted session at startup, and resolving the current user even while
// offline.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	// Login authenticates against the server and persists the session.
	Login(ctx context.Context, username, password string) (*models.User, error)

	// Register creates an account on the server and persists the session.
	Register(ctx context.Context, username, email, password string) (*models.User, error)

	// Restore loads a persisted token, installs it on the client, and
	// reports the user it belongs to. Returns common.ErrNoSession when
	// nothing usable is stored and common.ErrTokenExpired when the stored
	// token has lapsed.
	Restore(ctx context.Context) (*models.User, error)

	// CurrentUser returns the active user, refreshing the cached profile
	// from the server when reachable.
	CurrentUser(ctx context.Context) (*models.User, error)

	// CurrentUserID returns the active user's identifier without a network
	// round trip.
	CurrentUserID(ctx context.Context) (string, error)

	// Logout clears the session credential locally and on the client.
	Logout(ctx context.Context) error
}

type authService struct {
	client       client.Client
	metadataRepo metadata.Repository
	profileRepo  profiles.Repository
	log          logging.Logger

	// now is a test seam for expiry checks.
	now func() time.Time
}

// NewAuthService constructs an AuthService over the remote client and the
// local metadata/profile stores.
func NewAuthService(c client.Client, metadataRepo metadata.Repository, profileRepo profiles.Repository, log logging.Logger) AuthService {
	return &authService{
		client:       c,
		metadataRepo: metadataRepo,
		profileRepo:  profileRepo,
		log:          log,
		now:          time.Now,
	}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	session, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := a.adopt(ctx, session); err != nil {
		return nil, err
	}
	return &session.User, nil
}

func (a *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	session, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.adopt(ctx, session); err != nil {
		return nil, err
	}
	return &session.User, nil
}

// adopt installs and persists a fresh session.
func (a *authService) adopt(ctx context.Context, session *models.Session) error {
	a.client.SetToken(session.Token)
	if err := a.metadataRepo.Set(ctx, common.MetadataKeyToken, []byte(session.Token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := a.profileRepo.Upsert(ctx, &session.User); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	raw, err := a.metadataRepo.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if len(raw) == 0 {
		return nil, common.ErrNoSession
	}

	claims, err := token.Decode(string(raw))
	if err != nil {
		// A token we cannot read is not a session; clear it.
		_ = a.metadataRepo.Delete(ctx, common.MetadataKeyToken)
		return nil, common.ErrNoSession
	}
	if claims.Expired(a.now()) {
		_ = a.metadataRepo.Delete(ctx, common.MetadataKeyToken)
		return nil, common.ErrTokenExpired
	}

	a.client.SetToken(string(raw))

	user, err := a.profileRepo.GetByID(ctx, claims.Subject())
	if err != nil {
		return nil, fmt.Errorf("load cached profile: %w", err)
	}
	if user == nil {
		// Token is fine but we never cached the profile; synthesize the
		// minimum and let CurrentUser fill it in when online.
		user = &models.User{ID: claims.Subject()}
	}
	return user, nil
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	id, err := a.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := a.client.Me(ctx)
	if err == nil {
		if err := a.profileRepo.Upsert(ctx, remote); err != nil {
			a.log.Warn(ctx, "profile cache refresh failed", "error", err)
		}
		return remote, nil
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return nil, err
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	cached, cerr := a.profileRepo.GetByID(ctx, id)
	if cerr != nil {
		return nil, fmt.Errorf("load cached profile: %w", cerr)
	}
	if cached == nil {
		return &models.User{ID: id}, nil
	}
	return cached, nil
}

func (a *authService) CurrentUserID(ctx context.Context) (string, error) {
	raw, err := a.metadataRepo.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if len(raw) == 0 {
		return "", common.ErrNoSession
	}
	claims, err := token.Decode(string(raw))
	if err != nil {
		return "", common.ErrNoSession
	}
	if claims.Expired(a.now()) {
		return "", common.ErrTokenExpired
	}
	return claims.Subject(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.ClearToken()
	if err := a.metadataRepo.Delete(ctx, common.MetadataKeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
