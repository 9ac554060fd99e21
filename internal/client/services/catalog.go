package services

import (
	"context"
	"fmt"

	"github.com/joao-paulo-santos/bloqedex/internal/cachex"
	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/pokemon"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
)

// CatalogService serves the immutable Pokémon catalog. Pages the local
// mirror can answer completely are served without touching the network;
// everything else goes remote first with the local mirror as the
// connectivity fallback.
type CatalogService interface {
	// List returns one catalog page ordered by external identifier.
	// page is 1-based.
	List(ctx context.Context, page, pageSize int) (*models.PokemonPage, error)

	// Get returns one entry by external identifier. Returns
	// client.ErrNotFound when neither the server nor the mirror has it.
	Get(ctx context.Context, pokeapiID int64) (*models.Pokemon, error)

	// Search returns entries whose name contains q.
	Search(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error)
}

type catalogService struct {
	client      client.Client
	pokemonRepo pokemon.Repository
	cache       *cachex.Cache[*models.PokemonPage]
	log         logging.Logger
}

// NewCatalogService constructs a CatalogService over the remote client and
// the local mirror. cache may be shared between list and search results.
func NewCatalogService(c client.Client, repo pokemon.Repository, cache *cachex.Cache[*models.PokemonPage], log logging.Logger) CatalogService {
	return &catalogService{client: c, pokemonRepo: repo, cache: cache, log: log}
}

func (s *catalogService) List(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page %d/%d", page, pageSize)
	}

	key := cachex.Fingerprint("pokemon", page, pageSize)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	// Identifiers are dense from 1, so a fully mirrored id range answers
	// the page without the network.
	from := int64(page-1)*int64(pageSize) + 1
	to := int64(page) * int64(pageSize)
	complete, err := s.pokemonRepo.RangeContains(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range check: %w", err)
	}
	if complete {
		return s.localRange(ctx, page, pageSize, from, to)
	}

	remote, err := s.client.ListPokemon(ctx, page, pageSize)
	if err == nil {
		s.mirror(ctx, remote.Items)
		s.cache.Set(key, remote)
		return remote, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	s.log.Debug(ctx, "catalog list falling back to local mirror", "page", page, "error", err)
	return s.localList(ctx, page, pageSize)
}

func (s *catalogService) Get(ctx context.Context, pokeapiID int64) (*models.Pokemon, error) {
	local, err := s.pokemonRepo.GetByPokeapiID(ctx, pokeapiID)
	if err != nil {
		return nil, fmt.Errorf("local lookup: %w", err)
	}
	if local != nil {
		return local, nil
	}

	remote, err := s.client.GetPokemon(ctx, pokeapiID)
	if err != nil {
		if client.IsConnectivityError(err) {
			return nil, fmt.Errorf("%w: entry %d not mirrored", client.ErrLocalDataNotAvailable, pokeapiID)
		}
		return nil, err
	}
	if err := s.pokemonRepo.Upsert(ctx, remote); err != nil {
		s.log.Warn(ctx, "catalog mirror write failed", "pokeapiId", pokeapiID, "error", err)
	}
	return remote, nil
}

func (s *catalogService) Search(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page %d/%d", page, pageSize)
	}

	key := cachex.Fingerprint("pokemon-search", q, page, pageSize)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	remote, err := s.client.SearchPokemon(ctx, q, page, pageSize)
	if err == nil {
		s.mirror(ctx, remote.Items)
		s.cache.Set(key, remote)
		return remote, nil
	}
	if !client.IsConnectivityError(err) {
		return nil, err
	}

	s.log.Debug(ctx, "catalog search falling back to local mirror", "q", q, "error", err)
	offset := (page - 1) * pageSize
	items, lerr := s.pokemonRepo.Search(ctx, q, offset, pageSize)
	if lerr != nil {
		return nil, fmt.Errorf("local search: %w", lerr)
	}
	total, lerr := s.pokemonRepo.CountSearch(ctx, q)
	if lerr != nil {
		return nil, fmt.Errorf("local search count: %w", lerr)
	}
	return &models.PokemonPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: models.TotalPages(total, pageSize),
	}, nil
}

// mirror persists remote entries locally, best effort.
func (s *catalogService) mirror(ctx context.Context, items []models.Pokemon) {
	if len(items) == 0 {
		return
	}
	if err := s.pokemonRepo.SeedBatch(ctx, items); err != nil {
		s.log.Warn(ctx, "catalog mirror write failed", "count", len(items), "error", err)
	}
}

// localRange serves a page whose id range is fully mirrored.
func (s *catalogService) localRange(ctx context.Context, page, pageSize int, from, to int64) (*models.PokemonPage, error) {
	items, err := s.pokemonRepo.RangeFetch(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range fetch: %w", err)
	}
	total, err := s.pokemonRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("local count: %w", err)
	}
	return &models.PokemonPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: models.TotalPages(total, pageSize),
	}, nil
}

// localList serves a page from the mirror without the completeness check,
// used once the remote call has already failed.
func (s *catalogService) localList(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
	offset := (page - 1) * pageSize
	items, err := s.pokemonRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("local list: %w", err)
	}
	total, err := s.pokemonRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("local count: %w", err)
	}
	return &models.PokemonPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: models.TotalPages(total, pageSize),
	}, nil
}
