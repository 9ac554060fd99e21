package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return false
	}
	return true
}

func (a *App) listCaught(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	page, err := parsePageArg(args)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	result, err := a.pokedex.List(ctx, page, a.config.PageSize)
	if err != nil {
		printlnFn("Pokedex list failed:", err.Error())
		return
	}

	for _, rec := range result.Items {
		line := fmt.Sprintf("[%d] pokeapi #%d caught %s",
			rec.ID, rec.PokeapiID, rec.CaughtAt.Local().Format("2006-01-02 15:04"))
		if rec.Nickname != "" {
			line += " " + fmt.Sprintf("%q", rec.Nickname)
		}
		if rec.Favorite {
			line += " *"
		}
		if rec.Temporary {
			line += " (pending sync)"
		}
		printlnFn(line)
	}
	printlnFn(fmt.Sprintf("page %d (%d total)", result.Page, result.TotalCount))
}

func (a *App) catch(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	ids, err := parseIDs(args)
	if err != nil || len(ids) == 0 {
		printlnFn("Usage: catch <pokeapiId...>")
		return
	}

	if len(ids) == 1 {
		rec, err := a.pokedex.Catch(ctx, ids[0])
		if err != nil {
			printlnFn("Catch failed:", err.Error())
			return
		}
		a.reportCaught([]models.CaughtPokemon{*rec})
		return
	}

	recs, err := a.pokedex.CatchBulk(ctx, ids)
	if err != nil {
		printlnFn("Catch failed:", err.Error())
		return
	}
	a.reportCaught(recs)
}

func (a *App) reportCaught(recs []models.CaughtPokemon) {
	for _, rec := range recs {
		if rec.Temporary {
			printlnFn(fmt.Sprintf("Caught #%d (will sync when online)", rec.PokeapiID))
		} else {
			printlnFn(fmt.Sprintf("Caught #%d", rec.PokeapiID))
		}
	}
	if len(recs) == 0 {
		printlnFn("Nothing new to catch")
	}
}

func (a *App) release(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	ids, err := parseIDs(args)
	if err != nil || len(ids) != 1 {
		printlnFn("Usage: release <recordId>")
		return
	}

	if err := a.pokedex.Release(ctx, ids[0]); err != nil {
		printlnFn("Release failed:", err.Error())
		return
	}
	printlnFn("Released")
}

func (a *App) releaseAll(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	ids, err := parseIDs(args)
	if err != nil || len(ids) == 0 {
		printlnFn("Usage: releaseall <pokeapiId...>")
		return
	}

	if err := a.pokedex.ReleaseBulk(ctx, ids); err != nil {
		printlnFn("Release failed:", err.Error())
		return
	}
	printlnFn("Released", len(ids), "entries")
}

func (a *App) update(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	ids, err := parseIDs(args)
	if err != nil || len(ids) != 1 {
		printlnFn("Usage: update <recordId>")
		return
	}

	var upd models.CaughtUpdate
	nickname, err := GetSimpleText(a.reader, "Nickname (empty to keep)", os.Stdout)
	if err != nil {
		return
	}
	if nickname != "" {
		upd.Nickname = &nickname
	}
	note, err := GetSimpleText(a.reader, "Note (empty to keep)", os.Stdout)
	if err != nil {
		return
	}
	if note != "" {
		upd.Note = &note
	}
	favAnswer, err := GetSimpleText(a.reader, "Favorite? (y/n, empty to keep)", os.Stdout)
	if err != nil {
		return
	}
	switch strings.ToLower(favAnswer) {
	case "y", "yes":
		fav := true
		upd.Favorite = &fav
	case "n", "no":
		fav := false
		upd.Favorite = &fav
	}

	if upd.Nickname == nil && upd.Note == nil && upd.Favorite == nil {
		printlnFn("Nothing to change")
		return
	}

	rec, err := a.pokedex.Update(ctx, ids[0], upd)
	if err != nil {
		printlnFn("Update failed:", err.Error())
		return
	}
	if rec.Temporary {
		printlnFn("Updated (will sync when online)")
	} else {
		printlnFn("Updated")
	}
}

func (a *App) stats(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	stats, err := a.pokedex.Stats(ctx)
	if err != nil {
		printlnFn("Stats failed:", err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Caught:    %d of %d (%.1f%%)",
		stats.TotalCaught, stats.TotalAvailable, stats.CompletionPercentage))
	printlnFn(fmt.Sprintf("Favorites: %d", stats.TotalFavorites))
}

func (a *App) syncNow(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	result, err := a.sync.RunOnce(ctx)
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Sync: %d replayed, %d rejected, %d still pending",
		result.Completed, result.Failed, result.Remaining))
}
