package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/actions"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
	"github.com/joao-paulo-santos/bloqedex/internal/common"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
	"github.com/joao-paulo-santos/bloqedex/internal/netx"
)

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Completed int
	Failed    int
	Remaining int
	Deduped   int
	Purged    int64
}

// SyncService replays queued actions against the server in creation order.
// A connectivity failure stops the pass and leaves the rest of the queue
// pending; any other failure settles that one action as failed and the pass
// moves on.
type SyncService interface {
	// RunOnce performs a single sync pass. The pass only runs when a fresh
	// oracle probe reports the server reachable; offline it returns a zero
	// result without touching the network. Concurrent calls collapse: if a
	// pass is already running the second call returns immediately with a
	// zero result.
	RunOnce(ctx context.Context) (*SyncResult, error)

	// Start watches connectivity and runs a pass on every offline-to-online
	// transition and every interval while online. It blocks until ctx is
	// done.
	Start(ctx context.Context, interval time.Duration)

	// Pending reports how many actions await replay.
	Pending(ctx context.Context) (int, error)
}

type syncService struct {
	client      client.Client
	actionsRepo actions.Repository
	caughtRepo  caught.Repository
	reconciler  *Reconciler
	oracle      *netx.Oracle
	log         logging.Logger

	// running collapses overlapping passes.
	running sync.Mutex

	// online gates each pass; defaults to a fresh oracle probe. Test seam.
	online func(ctx context.Context) bool

	// now is a test seam for the retention cutoff.
	now func() time.Time
}

// NewSyncService constructs a SyncService.
func NewSyncService(c client.Client, actionsRepo actions.Repository, caughtRepo caught.Repository, reconciler *Reconciler, oracle *netx.Oracle, log logging.Logger) SyncService {
	return &syncService{
		client:      c,
		actionsRepo: actionsRepo,
		caughtRepo:  caughtRepo,
		reconciler:  reconciler,
		oracle:      oracle,
		log:         log,
		online:      oracle.Check,
		now:         time.Now,
	}
}

func (s *syncService) Pending(ctx context.Context) (int, error) {
	pending, err := s.actionsRepo.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

func (s *syncService) RunOnce(ctx context.Context) (*SyncResult, error) {
	if !s.running.TryLock() {
		return &SyncResult{}, nil
	}
	defer s.running.Unlock()

	if !s.online(ctx) {
		s.log.Debug(ctx, "sync pass skipped, server unreachable")
		return &SyncResult{}, nil
	}

	pending, err := s.actionsRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending actions: %w", err)
	}

	result := &SyncResult{}
	var userID string
	stopped := false

	for i := range pending {
		action := &pending[i]
		if uid := actionUserID(action); uid != "" {
			userID = uid
		}

		err := s.replay(ctx, action)
		switch {
		case err == nil:
			if ok, merr := s.actionsRepo.MarkStatus(ctx, action.ID, models.ActionCompleted); merr != nil {
				return result, fmt.Errorf("mark action completed: %w", merr)
			} else if ok {
				result.Completed++
			}
		case client.IsConnectivityError(err):
			// Server went away mid-pass; everything from here stays queued.
			s.log.Info(ctx, "sync pass interrupted by connectivity loss", "action", action.ID)
			result.Remaining = len(pending) - i
			stopped = true
		default:
			s.log.Warn(ctx, "action replay rejected", "action", action.ID, "kind", action.Kind, "error", err)
			if ok, merr := s.actionsRepo.MarkStatus(ctx, action.ID, models.ActionFailed); merr != nil {
				return result, fmt.Errorf("mark action failed: %w", merr)
			} else if ok {
				result.Failed++
			}
		}
		if stopped {
			break
		}
	}

	if !stopped && userID != "" {
		deduped, derr := s.reconciler.Dedupe(ctx, userID)
		if derr != nil {
			s.log.Warn(ctx, "dedupe failed", "error", derr)
		}
		result.Deduped = deduped
	}

	purged, perr := s.actionsRepo.PurgeSettled(ctx, s.now().Add(-common.ActionRetention))
	if perr != nil {
		s.log.Warn(ctx, "purge of settled actions failed", "error", perr)
	}
	result.Purged = purged

	s.log.Info(ctx, "sync pass finished",
		"completed", result.Completed, "failed", result.Failed, "remaining", result.Remaining)
	return result, nil
}

func (s *syncService) Start(ctx context.Context, interval time.Duration) {
	s.oracle.Watch(ctx, interval, func(online bool) {
		if !online {
			return
		}
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error(ctx, "background sync pass failed", "error", err)
		}
	})
}

// replay executes one action against the server.
func (s *syncService) replay(ctx context.Context, action *models.PendingAction) error {
	switch action.Kind {
	case models.ActionCatch:
		return s.replayCatch(ctx, action)
	case models.ActionBulkCatch:
		return s.replayBulkCatch(ctx, action)
	case models.ActionRelease:
		return s.replayRelease(ctx, action)
	case models.ActionBulkRelease:
		return s.replayBulkRelease(ctx, action)
	case models.ActionUpdate:
		return s.replayUpdate(ctx, action)
	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

func (s *syncService) replayCatch(ctx context.Context, action *models.PendingAction) error {
	var p models.CatchPayload
	if err := action.DecodePayload(&p); err != nil {
		return err
	}

	confirmed, err := s.client.Catch(ctx, p.PokeapiID)
	if err != nil {
		if client.IsConnectivityError(err) {
			return err
		}
		// The server rejected the catch, so the optimistic record must go.
		if derr := s.caughtRepo.Delete(ctx, p.TempID); derr != nil {
			s.log.Warn(ctx, "failed to remove rejected optimistic record", "id", p.TempID, "error", derr)
		}
		return err
	}
	return s.reconciler.ReplaceTemporary(ctx, p.TempID, confirmed)
}

func (s *syncService) replayBulkCatch(ctx context.Context, action *models.PendingAction) error {
	var p models.BulkCatchPayload
	if err := action.DecodePayload(&p); err != nil {
		return err
	}

	confirmed, err := s.client.CatchBulk(ctx, p.PokeapiIDs)
	if err != nil {
		return err
	}

	// TempIDs is parallel to PokeapiIDs; map each confirmed record back to
	// the optimistic one it supersedes.
	tempByPokeapi := make(map[int64]int64, len(p.PokeapiIDs))
	for i, id := range p.PokeapiIDs {
		if i < len(p.TempIDs) {
			tempByPokeapi[id] = p.TempIDs[i]
		}
	}
	for i := range confirmed {
		tempID, ok := tempByPokeapi[confirmed[i].PokeapiID]
		if !ok {
			continue
		}
		if err := s.reconciler.ReplaceTemporary(ctx, tempID, &confirmed[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *syncService) replayRelease(ctx context.Context, action *models.PendingAction) error {
	var p models.ReleasePayload
	if err := action.DecodePayload(&p); err != nil {
		return err
	}

	var err error
	if p.Temporary {
		// The server never issued an id for this record; release by
		// external id instead.
		err = s.client.ReleaseBulkByPokeapiID(ctx, []int64{p.PokeapiID})
	} else {
		err = s.client.Release(ctx, p.ID)
	}
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	if p.Temporary {
		// The record's catch replayed earlier in this queue and recreated a
		// confirmed copy locally; remove it too.
		if _, derr := s.caughtRepo.DeleteByUserAndPokeapiID(ctx, p.UserID, p.PokeapiID); derr != nil {
			return fmt.Errorf("delete local records: %w", derr)
		}
	}
	return nil
}

func (s *syncService) replayBulkRelease(ctx context.Context, action *models.PendingAction) error {
	var p models.BulkReleasePayload
	if err := action.DecodePayload(&p); err != nil {
		return err
	}
	err := s.client.ReleaseBulkByPokeapiID(ctx, p.PokeapiIDs)
	if errors.Is(err, client.ErrNotFound) {
		return nil
	}
	return err
}

func (s *syncService) replayUpdate(ctx context.Context, action *models.PendingAction) error {
	var p models.UpdatePayload
	if err := action.DecodePayload(&p); err != nil {
		return err
	}

	id := p.ID
	if p.Temporary {
		// The edit targeted an optimistic record. Its catch replays earlier
		// in the same queue, swapping in the server id; look it up.
		recs, err := s.caughtRepo.GetByUserAndPokeapiID(ctx, p.UserID, p.PokeapiID)
		if err != nil {
			return fmt.Errorf("resolve confirmed record: %w", err)
		}
		id = 0
		for i := range recs {
			if !temporary(&recs[i]) {
				id = recs[i].ID
				break
			}
		}
		if id == 0 {
			return fmt.Errorf("no confirmed record for pokeapi id %d", p.PokeapiID)
		}
	}

	updated, err := s.client.UpdateCaught(ctx, id, p.Update)
	if err != nil {
		return err
	}
	updated.Temporary = false
	return s.caughtRepo.Upsert(ctx, updated)
}

// actionUserID extracts the owning user from any payload variant.
func actionUserID(action *models.PendingAction) string {
	var probe struct {
		UserID string `json:"userId"`
	}
	if err := action.DecodePayload(&probe); err != nil {
		return ""
	}
	return probe.UserID
}
