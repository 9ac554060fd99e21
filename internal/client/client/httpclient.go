package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
)

// HTTPClient is the production Client implementation, a JSON/REST client for
// the Bloqedex API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	// health uses a much shorter timeout than regular calls: the probe has
	// to answer "is it worth trying?" quickly.
	health *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for baseURL. requestTimeout bounds regular
// calls, healthTimeout bounds the liveness probe.
func NewHTTPClient(baseURL string, requestTimeout, healthTimeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		health:  &http.Client{Timeout: healthTimeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	c.health.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Ping probes GET /health.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.health.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: health returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// --- Auth ---

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &models.Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.Session, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &models.Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Catalog ---

// pokemonListResponse tolerates both key spellings the API has used for the
// item array.
type pokemonListResponse struct {
	Items      []models.Pokemon `json:"items"`
	Pokemon    []models.Pokemon `json:"pokemon"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
}

func (r *pokemonListResponse) page() *models.PokemonPage {
	items := r.Items
	if items == nil {
		items = r.Pokemon
	}
	return &models.PokemonPage{
		Items:      items,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages,
	}
}

func (c *HTTPClient) ListPokemon(ctx context.Context, page, pageSize int) (*models.PokemonPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var resp pokemonListResponse
	if err := c.do(ctx, http.MethodGet, "/pokemon?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.page(), nil
}

func (c *HTTPClient) GetPokemon(ctx context.Context, pokeapiID int64) (*models.Pokemon, error) {
	var p models.Pokemon
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pokemon/%d", pokeapiID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) SearchPokemon(ctx context.Context, q string, page, pageSize int) (*models.PokemonPage, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var resp pokemonListResponse
	if err := c.do(ctx, http.MethodGet, "/pokemon/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.page(), nil
}

// --- Pokédex ---

type caughtListResponse struct {
	CaughtPokemon   []models.CaughtPokemon `json:"caughtPokemon"`
	TotalCount      int64                  `json:"totalCount"`
	HasNextPage     bool                   `json:"hasNextPage"`
	HasPreviousPage bool                   `json:"hasPreviousPage"`
}

// ListCaught fetches one page of ownership records. page is 1-based; the
// wire uses a 0-based pageIndex.
func (c *HTTPClient) ListCaught(ctx context.Context, page, pageSize int) (*models.CaughtPage, error) {
	params := url.Values{}
	params.Set("pageIndex", strconv.Itoa(page-1))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var resp caughtListResponse
	if err := c.do(ctx, http.MethodGet, "/pokedex?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &models.CaughtPage{
		Items:           resp.CaughtPokemon,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      resp.TotalCount,
		HasNextPage:     resp.HasNextPage,
		HasPreviousPage: resp.HasPreviousPage,
	}, nil
}

func (c *HTTPClient) Catch(ctx context.Context, pokeapiID int64) (*models.CaughtPokemon, error) {
	body := map[string]int64{"pokeapiId": pokeapiID}
	var caught models.CaughtPokemon
	if err := c.do(ctx, http.MethodPost, "/pokedex/catch", body, &caught); err != nil {
		return nil, err
	}
	return &caught, nil
}

func (c *HTTPClient) CatchBulk(ctx context.Context, pokeapiIDs []int64) ([]models.CaughtPokemon, error) {
	body := map[string][]int64{"pokeapiIds": pokeapiIDs}
	var resp struct {
		CaughtPokemon []models.CaughtPokemon `json:"caughtPokemon"`
	}
	if err := c.do(ctx, http.MethodPost, "/pokedex/catch/bulk", body, &resp); err != nil {
		return nil, err
	}
	return resp.CaughtPokemon, nil
}

func (c *HTTPClient) Release(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/pokedex/release/%d", id), nil, nil)
}

func (c *HTTPClient) ReleaseBulkByPokeapiID(ctx context.Context, pokeapiIDs []int64) error {
	body := map[string][]int64{"pokeapiIds": pokeapiIDs}
	return c.do(ctx, http.MethodDelete, "/pokedex/release/bulk/pokeapi", body, nil)
}

func (c *HTTPClient) UpdateCaught(ctx context.Context, id int64, upd models.CaughtUpdate) (*models.CaughtPokemon, error) {
	var caught models.CaughtPokemon
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/pokedex/update/%d", id), upd, &caught); err != nil {
		return nil, err
	}
	return &caught, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.PokedexStats, error) {
	var stats models.PokedexStats
	if err := c.do(ctx, http.MethodGet, "/pokedex/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Sharing ---

func (c *HTTPClient) CreateShare(ctx context.Context, pokeapiIDs []int64) (*models.Share, error) {
	body := map[string][]int64{"pokeapiIds": pokeapiIDs}
	var share models.Share
	if err := c.do(ctx, http.MethodPost, "/sharing/create", body, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

func (c *HTTPClient) GetShare(ctx context.Context, token string) (*models.Share, error) {
	var share models.Share
	if err := c.do(ctx, http.MethodGet, "/sharing/"+url.PathEscape(token), nil, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

func (c *HTTPClient) MyShares(ctx context.Context) ([]models.Share, error) {
	var shares []models.Share
	if err := c.do(ctx, http.MethodGet, "/sharing/my-shares", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// do executes one JSON request. Transport failures and 502/503/504 are
// wrapped in ErrUnavailable; other HTTP errors keep their identity.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if connectivityStatus(resp.StatusCode) {
			return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
		}
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		default:
			return apiErr
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
