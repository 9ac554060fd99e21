package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

func (a *App) list(ctx context.Context, args []string) {
	page, err := parsePageArg(args)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	result, err := a.catalog.List(ctx, page, a.config.PageSize)
	if err != nil {
		printlnFn("List failed:", err.Error())
		return
	}
	a.printCatalogPage(result)
}

func (a *App) search(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: search <name> [page]")
		return
	}
	page, err := parsePageArg(args[1:])
	if err != nil {
		printlnFn(err.Error())
		return
	}

	result, err := a.catalog.Search(ctx, args[0], page, a.config.PageSize)
	if err != nil {
		printlnFn("Search failed:", err.Error())
		return
	}
	a.printCatalogPage(result)
}

func (a *App) show(ctx context.Context, args []string) {
	if len(args) != 1 {
		printlnFn("Usage: show <id>")
		return
	}
	ids, err := parseIDs(args)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	p, err := a.catalog.Get(ctx, ids[0])
	if err != nil {
		printlnFn("Show failed:", err.Error())
		return
	}

	printlnFn(fmt.Sprintf("#%d %s", p.PokeapiID, p.Name))
	printlnFn("  types:", strings.Join(p.Types, ", "))
	printlnFn(fmt.Sprintf("  height %d  weight %d  base exp %d", p.Height, p.Weight, p.BaseExperience))
	for _, stat := range p.Stats {
		printlnFn(fmt.Sprintf("  %-16s %d", stat.Name, stat.Value))
	}
}

func (a *App) printCatalogPage(page *models.PokemonPage) {
	for _, p := range page.Items {
		printlnFn(fmt.Sprintf("#%-5d %-15s %s", p.PokeapiID, p.Name, strings.Join(p.Types, "/")))
	}
	printlnFn(fmt.Sprintf("page %d/%d (%d total)", page.Page, page.TotalPages, page.TotalCount))
}
