package services

import (
	"context"
	"fmt"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
	"github.com/joao-paulo-santos/bloqedex/internal/common"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
)

// Reconciler repairs the local store after replay: it swaps optimistic
// records for their server-confirmed versions and removes duplicates left
// behind by interrupted syncs. Both operations are idempotent.
type Reconciler struct {
	caughtRepo caught.Repository
	log        logging.Logger

	// batch sizes the pages of the dedupe scan.
	batch int
}

// NewReconciler constructs a Reconciler over the ownership store.
func NewReconciler(caughtRepo caught.Repository, log logging.Logger) *Reconciler {
	return &Reconciler{caughtRepo: caughtRepo, log: log, batch: 500}
}

// temporary reports whether a record is client-generated. The explicit
// provenance tag is authoritative; the id-magnitude check only catches
// records written before the tag existed.
func temporary(rec *models.CaughtPokemon) bool {
	return rec.Temporary || rec.ID >= common.TemporaryIDFloor
}

// ReplaceTemporary swaps the optimistic record tempID for its confirmed
// counterpart. Local edits made to the optimistic record survive the swap;
// their own queued replay brings the server in line. A missing tempID is
// fine, the swap may have already happened.
func (r *Reconciler) ReplaceTemporary(ctx context.Context, tempID int64, confirmed *models.CaughtPokemon) error {
	temp, err := r.caughtRepo.GetByID(ctx, tempID)
	if err != nil {
		return fmt.Errorf("load optimistic record: %w", err)
	}

	rec := *confirmed
	rec.Temporary = false
	if temp != nil {
		if temp.Note != "" {
			rec.Note = temp.Note
		}
		if temp.Nickname != "" {
			rec.Nickname = temp.Nickname
		}
		if temp.Favorite {
			rec.Favorite = true
		}
		if err := r.caughtRepo.Delete(ctx, tempID); err != nil {
			return fmt.Errorf("delete optimistic record: %w", err)
		}
	}
	if err := r.caughtRepo.Upsert(ctx, &rec); err != nil {
		return fmt.Errorf("store confirmed record: %w", err)
	}
	return nil
}

// Dedupe removes duplicate ownership records for a user. For each external
// id with more than one record, the confirmed record wins; among records of
// equal provenance the smallest id wins. Returns how many records were
// removed. Running it twice is a no-op the second time.
func (r *Reconciler) Dedupe(ctx context.Context, userID string) (int, error) {
	// Enumerate the distinct external ids before deleting anything;
	// deletions mid-scan would shift the page offsets under the reader.
	seen := make(map[int64]struct{})
	var ids []int64
	for offset := 0; ; offset += r.batch {
		recs, err := r.caughtRepo.ListByUser(ctx, userID, offset, r.batch)
		if err != nil {
			return 0, fmt.Errorf("list records: %w", err)
		}
		for i := range recs {
			pokeapiID := recs[i].PokeapiID
			if _, done := seen[pokeapiID]; done {
				continue
			}
			seen[pokeapiID] = struct{}{}
			ids = append(ids, pokeapiID)
		}
		if len(recs) < r.batch {
			break
		}
	}

	removed := 0
	for _, pokeapiID := range ids {
		n, err := r.dedupeOne(ctx, userID, pokeapiID)
		if err != nil {
			return removed, err
		}
		removed += n
	}

	if removed > 0 {
		r.log.Info(ctx, "removed duplicate records", "count", removed)
	}
	return removed, nil
}

func (r *Reconciler) dedupeOne(ctx context.Context, userID string, pokeapiID int64) (int, error) {
	// Already ordered confirmed-first then ascending id; the keeper is the
	// head of the list.
	recs, err := r.caughtRepo.GetByUserAndPokeapiID(ctx, userID, pokeapiID)
	if err != nil {
		return 0, fmt.Errorf("load records for %d: %w", pokeapiID, err)
	}
	if len(recs) <= 1 {
		return 0, nil
	}

	keeper := pickKeeper(recs)
	removed := 0
	for i := range recs {
		if recs[i].ID == keeper.ID {
			continue
		}
		if err := r.caughtRepo.Delete(ctx, recs[i].ID); err != nil {
			return removed, fmt.Errorf("delete duplicate %d: %w", recs[i].ID, err)
		}
		removed++
	}
	return removed, nil
}

// pickKeeper selects the survivor among duplicates: confirmed over
// temporary, then smallest id.
func pickKeeper(recs []models.CaughtPokemon) *models.CaughtPokemon {
	keeper := &recs[0]
	for i := 1; i < len(recs); i++ {
		cand := &recs[i]
		kTemp, cTemp := temporary(keeper), temporary(cand)
		switch {
		case cTemp != kTemp:
			if kTemp {
				keeper = cand
			}
		case cand.ID < keeper.ID:
			keeper = cand
		}
	}
	return keeper
}
