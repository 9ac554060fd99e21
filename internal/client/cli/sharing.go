package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) share(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	ids, err := parseIDs(args)
	if err != nil || len(ids) == 0 {
		printlnFn("Usage: share <pokeapiId...>")
		return
	}

	shareResult, err := a.sharing.Create(ctx, ids)
	if err != nil {
		printlnFn("Share failed:", err.Error())
		return
	}
	printlnFn("Share created:", shareResult.Token)
}

func (a *App) shares(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	mine, err := a.sharing.Mine(ctx)
	if err != nil {
		printlnFn("Could not list shares:", err.Error())
		return
	}
	if len(mine) == 0 {
		printlnFn("No shares yet")
		return
	}
	for _, s := range mine {
		printlnFn(fmt.Sprintf("%s  (%d entries, created %s)",
			s.Token, len(s.PokeapiIDs), s.CreatedAt.Local().Format("2006-01-02")))
	}
}

func (a *App) viewShare(ctx context.Context, args []string) {
	if len(args) != 1 {
		printlnFn("Usage: viewshare <token>")
		return
	}

	s, err := a.sharing.Get(ctx, args[0])
	if err != nil {
		printlnFn("Could not resolve share:", err.Error())
		return
	}

	ids := make([]string, 0, len(s.PokeapiIDs))
	for _, id := range s.PokeapiIDs {
		ids = append(ids, fmt.Sprintf("#%d", id))
	}
	printlnFn("Shared collection:", strings.Join(ids, ", "))
}
