package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joao-paulo-santos/bloqedex/internal/cachex"
	"github.com/joao-paulo-santos/bloqedex/internal/client/client"
	"github.com/joao-paulo-santos/bloqedex/internal/client/config"
	"github.com/joao-paulo-santos/bloqedex/internal/client/models"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/actions"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/caught"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/metadata"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/pokemon"
	"github.com/joao-paulo-santos/bloqedex/internal/client/repositories/profiles"
	"github.com/joao-paulo-santos/bloqedex/internal/client/services"
	"github.com/joao-paulo-santos/bloqedex/internal/logging"
	"github.com/joao-paulo-santos/bloqedex/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App ties the services together behind the REPL.
type App struct {
	config  *config.Config
	client  client.Client
	auth    services.AuthService
	catalog services.CatalogService
	pokedex services.PokedexService
	sharing services.SharingService
	sync    services.SyncService
	oracle  *netx.Oracle
	log     logging.Logger

	user   *models.User
	Mode   Mode
	reader *bufio.Reader
}

// NewApp wires the full client stack from configuration.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	apiClient := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, c.HealthTimeout)

	metadataRepo := metadata.NewSQLiteRepository(db)
	profileRepo := profiles.NewSQLiteRepository(db)
	pokemonRepo := pokemon.NewSQLiteRepository(db)
	caughtRepo := caught.NewSQLiteRepository(db)
	actionsRepo := actions.NewSQLiteRepository(db)

	auth := services.NewAuthService(apiClient, metadataRepo, profileRepo, logger)
	catalog := services.NewCatalogService(apiClient, pokemonRepo,
		cachex.New[*models.PokemonPage](c.CacheTTL), logger)
	pokedex := services.NewPokedexService(apiClient, caughtRepo, actionsRepo, pokemonRepo, auth, logger)
	sharing := services.NewSharingService(apiClient, caughtRepo, auth)
	reconciler := services.NewReconciler(caughtRepo, logger)
	oracle := netx.NewOracle(apiClient, c.HealthTimeout)
	syncSvc := services.NewSyncService(apiClient, actionsRepo, caughtRepo, reconciler, oracle, logger)

	return &App{
		config:  c,
		client:  apiClient,
		auth:    auth,
		catalog: catalog,
		pokedex: pokedex,
		sharing: sharing,
		sync:    syncSvc,
		oracle:  oracle,
		log:     logger,
		Mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		printlnFn("Switched to", string(mode), "mode")
	}
}

// StartConnectivityWatcher probes the server every interval, updates the
// mode display, and replays queued actions whenever the server becomes
// reachable. RunOnce collapses overlapping passes, so a manual `sync` racing
// the watcher is harmless.
func (a *App) StartConnectivityWatcher(ctx context.Context, interval time.Duration) {
	a.oracle.Watch(ctx, interval, func(online bool) {
		if !online {
			a.setMode(ModeOffline)
			return
		}
		a.setMode(ModeOnline)
		if result, err := a.sync.RunOnce(ctx); err != nil {
			a.log.Error(ctx, "background sync failed", "error", err)
		} else if result.Completed > 0 || result.Failed > 0 {
			printlnFn("Synced:", result.Completed, "replayed,", result.Failed, "rejected")
		}
	})
}
