package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/actions"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/pokemon"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
)

// ErrAlreadyCaught means the user already owns the Pokémon they tried to
// catch.
var ErrAlreadyCaught = errors.New("already caught")

// PokedexService manages the user's collection. Mutations reach the server
// when it is reachable; otherwise they are applied to the local store with a
// temporary identifier and queued for replay. Non-connectivity failures
// (validation, authorization) propagate to the caller and are never queued.
type PokedexService interface {
	// List returns one page of the user's records, newest first. page is
	// 1-based.
	List(ctx context.Context, page, pageSize int) (*models.CaughtPage, error)

	// Catch records ownership of one Pokémon.
	Catch(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error)

	// CatchBulk records ownership of several Pokémon. Already-owned ids are
	// skipped.
	CatchBulk(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error)

	// Release removes one record by its identifier.
	Release(ctx context.Context, id int64) error

	// ReleaseBulk removes every record matching the given external ids.
	ReleaseBulk(ctx context.Context, pokeapiIDs []int64) error

	// Update edits the mutable fields of one record.
	Update(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error)

	// Stats summarizes the collection.
	Stats(ctx context.Context) (*models.PokedexStats, error)
}

type pokedexService struct {
	client      client.Client
	caughtRepo  caught.Repository
	actionsRepo actions.Repository
	pokemonRepo pokemon.Repository
	auth        AuthService
	log         logging.Logger

	// now is a test seam.
	now func() time.Time

	// lastTempID makes temporary ids strictly monotonic even when several
	// are minted within one millisecond.
	mu         sync.Mutex
	lastTempID int64
}

// NewPokedexService constructs a PokedexService.
func NewPokedexService(c client.Client, caughtRepo caught.Repository, actionsRepo actions.Repository, pokemonRepo pokemon.Repository, auth AuthService, log logging.Logger) PokedexService {
	return &pokedexService{
		client:      c,
		caughtRepo:  caughtRepo,
		actionsRepo: actionsRepo,
		pokemonRepo: pokemonRepo,
		auth:        auth,
		log:         log,
		now:         time.Now,
	}
}

// tempID mints a client-local identifier from the current Unix millisecond
// clock. Values in this range cannot collide with server-assigned ids.
func (s *pokedexService) tempID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastTempID {
		id = s.lastTempID + 1
	}
	s.lastTempID = id
	return id
}

func (s *pokedexService) List(ctx context.Context, page, pageSize int) (*models.CaughtPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page %d/%d", page, pageSize)
	}
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := s.client.ListCaught(ctx, page, pageSize)
	if err == nil {
		for i := range remote.Items {
			rec := remote.Items[i]
			rec.Temporary = false
			if uerr := s.caughtRepo.Upsert(ctx, &rec); uerr != nil {
				s.log.Warn(ctx, "pokedex mirror write failed", "id", rec.ID, "error", uerr)
			}
		}
		return remote, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	s.log.Debug(ctx, "pokedex list falling back to local store", "page", page, "error", err)
	offset := (page - 1) * pageSize
	items, lerr := s.caughtRepo.ListByUser(ctx, userID, offset, pageSize)
	if lerr != nil {
		return nil, fmt.Errorf("local list: %w", lerr)
	}
	total, lerr := s.caughtRepo.CountByUser(ctx, userID)
	if lerr != nil {
		return nil, fmt.Errorf("local count: %w", lerr)
	}
	return &models.CaughtPage{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      total,
		HasNextPage:     int64(offset+len(items)) < total,
		HasPreviousPage: page > 1,
	}, nil
}

func (s *pokedexService) Catch(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error) {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.caughtRepo.GetByUserAndPokeapiID(ctx, userID, pokeapiID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: pokeapi id %d", ErrAlreadyCaught, pokeapiID)
	}

	confirmed, err := s.client.Catch(ctx, pokeapiID)
	if err == nil {
		confirmed.Temporary = false
		if uerr := s.caughtRepo.Upsert(ctx, confirmed); uerr != nil {
			return nil, fmt.Errorf("store confirmed record: %w", uerr)
		}
		return confirmed, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	// Offline: optimistic local record plus a queued replay.
	rec := &models.CaughtPokemon{
		ID:        s.tempID(),
		Temporary: true,
		UserID:    userID,
		PokeapiID: pokeapiID,
		CaughtAt:  s.now().UTC(),
	}
	if uerr := s.caughtRepo.Upsert(ctx, rec); uerr != nil {
		return nil, fmt.Errorf("store optimistic record: %w", uerr)
	}
	if qerr := s.queue(ctx, models.ActionCatch, models.CatchPayload{
		UserID:    userID,
		PokeapiID: pokeapiID,
		TempID:    rec.ID,
		CaughtAt:  rec.CaughtAt,
	}); qerr != nil {
		// Without the action nothing would ever replay the record;
		// take it back out.
		if derr := s.caughtRepo.Delete(ctx, rec.ID); derr != nil {
			s.log.Warn(ctx, "rollback of optimistic record failed", "id", rec.ID, "error", derr)
		}
		return nil, qerr
	}
	return rec, nil
}

func (s *pokedexService) CatchBulk(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error) {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Drop ids already owned so replay stays idempotent.
	fresh := make([]int64, 0, len(pokeapiIDs))
	for _, id := range pokeapiIDs {
		existing, err := s.caughtRepo.GetByUserAndPokeapiID(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		if len(existing) == 0 {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	confirmed, err := s.client.CatchBulk(ctx, fresh)
	if err == nil {
		for i := range confirmed {
			confirmed[i].Temporary = false
			if uerr := s.caughtRepo.Upsert(ctx, &confirmed[i]); uerr != nil {
				return nil, fmt.Errorf("store confirmed record: %w", uerr)
			}
		}
		return confirmed, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	caughtAt := s.now().UTC()
	recs := make([]models.CaughtPokemon, 0, len(fresh))
	tempIDs := make([]int64, 0, len(fresh))
	for _, id := range fresh {
		rec := models.CaughtPokemon{
			ID:        s.tempID(),
			Temporary: true,
			UserID:    userID,
			PokeapiID: id,
			CaughtAt:  caughtAt,
		}
		if uerr := s.caughtRepo.Upsert(ctx, &rec); uerr != nil {
			return nil, fmt.Errorf("store optimistic record: %w", uerr)
		}
		recs = append(recs, rec)
		tempIDs = append(tempIDs, rec.ID)
	}
	if qerr := s.queue(ctx, models.ActionBulkCatch, models.BulkCatchPayload{
		UserID:     userID,
		PokeapiIDs: fresh,
		TempIDs:    tempIDs,
		CaughtAt:   caughtAt,
	}); qerr != nil {
		for _, id := range tempIDs {
			if derr := s.caughtRepo.Delete(ctx, id); derr != nil {
				s.log.Warn(ctx, "rollback of optimistic record failed", "id", id, "error", derr)
			}
		}
		return nil, qerr
	}
	return recs, nil
}

func (s *pokedexService) Release(ctx context.Context, id int64) error {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	rec, err := s.caughtRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("local lookup: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: record %d", client.ErrNotFound, id)
	}

	if !rec.Temporary {
		err = s.client.Release(ctx, id)
		switch {
		case err == nil, errors.Is(err, client.ErrNotFound):
			// Gone remotely either way.
			return s.caughtRepo.Delete(ctx, id)
		case !client.IsConnectivityError(err):
			return err
		}
	}

	// Offline, or the record only ever existed locally. Remove it now and
	// queue the remote removal; a temporary record's queued catch may still
	// replay first, so the release goes by external id.
	if derr := s.caughtRepo.Delete(ctx, id); derr != nil {
		return fmt.Errorf("delete local record: %w", derr)
	}
	if qerr := s.queue(ctx, models.ActionRelease, models.ReleasePayload{
		UserID:    userID,
		ID:        id,
		Temporary: rec.Temporary,
		PokeapiID: rec.PokeapiID,
	}); qerr != nil {
		// The release will never reach the server; put the record back.
		if uerr := s.caughtRepo.Upsert(ctx, rec); uerr != nil {
			s.log.Warn(ctx, "rollback of local release failed", "id", id, "error", uerr)
		}
		return qerr
	}
	return nil
}

func (s *pokedexService) ReleaseBulk(ctx context.Context, pokeapiIDs []int64) error {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if len(pokeapiIDs) == 0 {
		return nil
	}

	err = s.client.ReleaseBulkByPokeapiID(ctx, pokeapiIDs)
	if err == nil || errors.Is(err, client.ErrNotFound) {
		for _, id := range pokeapiIDs {
			if _, derr := s.caughtRepo.DeleteByUserAndPokeapiID(ctx, userID, id); derr != nil {
				return fmt.Errorf("delete local records: %w", derr)
			}
		}
		return nil
	}
	if !client.IsConnectivityError(err) {
		return err
	}

	// Remember what gets removed so a queue failure can restore it.
	var removed []models.CaughtPokemon
	for _, id := range pokeapiIDs {
		recs, lerr := s.caughtRepo.GetByUserAndPokeapiID(ctx, userID, id)
		if lerr != nil {
			return fmt.Errorf("local lookup: %w", lerr)
		}
		removed = append(removed, recs...)
		if _, derr := s.caughtRepo.DeleteByUserAndPokeapiID(ctx, userID, id); derr != nil {
			return fmt.Errorf("delete local records: %w", derr)
		}
	}
	if qerr := s.queue(ctx, models.ActionBulkRelease, models.BulkReleasePayload{
		UserID:     userID,
		PokeapiIDs: pokeapiIDs,
	}); qerr != nil {
		for i := range removed {
			if uerr := s.caughtRepo.Upsert(ctx, &removed[i]); uerr != nil {
				s.log.Warn(ctx, "rollback of local release failed", "id", removed[i].ID, "error", uerr)
			}
		}
		return qerr
	}
	return nil
}

func (s *pokedexService) Update(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error) {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.caughtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("local lookup: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: record %d", client.ErrNotFound, id)
	}

	if !rec.Temporary {
		remote, err := s.client.UpdateCaught(ctx, id, upd)
		if err == nil {
			remote.Temporary = false
			if uerr := s.caughtRepo.Upsert(ctx, remote); uerr != nil {
				return nil, fmt.Errorf("store updated record: %w", uerr)
			}
			return remote, nil
		}
		if !client.IsConnectivityError(err) {
			return nil, err
		}
	}

	prev := *rec
	upd.Apply(rec)
	if uerr := s.caughtRepo.Upsert(ctx, rec); uerr != nil {
		return nil, fmt.Errorf("store updated record: %w", uerr)
	}
	if qerr := s.queue(ctx, models.ActionUpdate, models.UpdatePayload{
		UserID:    userID,
		ID:        id,
		Temporary: rec.Temporary,
		PokeapiID: rec.PokeapiID,
		Update:    upd,
	}); qerr != nil {
		// Revert the local edit; it would never reach the server.
		if uerr := s.caughtRepo.Upsert(ctx, &prev); uerr != nil {
			s.log.Warn(ctx, "rollback of local edit failed", "id", id, "error", uerr)
		}
		return nil, qerr
	}
	return rec, nil
}

func (s *pokedexService) Stats(ctx context.Context) (*models.PokedexStats, error) {
	userID, err := s.auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := s.client.Stats(ctx)
	if err == nil {
		return remote, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	total, lerr := s.caughtRepo.CountByUser(ctx, userID)
	if lerr != nil {
		return nil, fmt.Errorf("local count: %w", lerr)
	}
	favorites, lerr := s.caughtRepo.CountFavorites(ctx, userID)
	if lerr != nil {
		return nil, fmt.Errorf("local favorites count: %w", lerr)
	}
	available, lerr := s.pokemonRepo.Count(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("local catalog count: %w", lerr)
	}
	stats := &models.PokedexStats{
		TotalCaught:    total,
		TotalFavorites: favorites,
		TotalAvailable: available,
	}
	if available > 0 {
		stats.CompletionPercentage = float64(total) / float64(available) * 100
	}
	return stats, nil
}

// queue records a pending action for the sync manager to replay.
func (s *pokedexService) queue(ctx context.Context, kind models.ActionKind, payload any) error {
	action, err := models.NewAction(uuid.NewString(), kind, payload, s.now().UTC())
	if err != nil {
		return err
	}
	if err := s.actionsRepo.Add(ctx, action); err != nil {
		return fmt.Errorf("queue %s action: %w", kind, err)
	}
	s.log.Info(ctx, "queued offline action", "kind", kind, "id", action.ID)
	return nil
}
