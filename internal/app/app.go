package app

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/rossa-autoparts/storefront/internal/apiclient"
	"github.com/rossa-autoparts/storefront/internal/cart"
	"github.com/rossa-autoparts/storefront/internal/catalog"
	"github.com/rossa-autoparts/storefront/internal/storage/sqlite"
	"github.com/rossa-autoparts/storefront/internal/tui"
	"github.com/rossa-autoparts/storefront/pkg/httpclient"
)

// Run creates all dependencies, restores persisted state, and hands
// control to the terminal UI. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("api", cfg.APIBaseURL))

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTP.Timeout,
		Retry: httpclient.RetryConfig{
			MaxAttempts: cfg.HTTP.RetryAttempts,
			Backoff:     cfg.HTTP.RetryBackoff,
		},
		TracerProvider: m.TracerProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create api client")
	}

	// Cart persistence lives in a local SQLite file. Persistence is a
	// convenience, not a requirement: when the store cannot be opened the
	// session runs with an in-memory cart.
	store, closeStore := openCartStore(ctx, lg, cfg.CartPath)
	defer closeStore()

	// Cart: restore persisted lines, re-hydrating products from the API.
	// A failure here is recoverable — the session starts with an empty cart.
	bag := cart.NewAggregator(client, store, lg)
	if err := bag.Load(ctx); err != nil {
		lg.Warn("Restoring cart failed", zap.Error(err))
	}

	// Catalog: restore a shared query when one was passed, otherwise start
	// from the default filter. Either way this issues the initial fetch.
	sync := catalog.NewSynchronizer(client, catalog.Config{
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
	}, lg)
	defer sync.Close()

	initial, err := url.ParseQuery(cfg.Query)
	if err != nil {
		return errors.Wrap(err, "parse --query")
	}
	sync.Restore(ctx, initial)

	program := tea.NewProgram(
		tui.New(ctx, sync, bag, client, lg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run ui")
	}

	lg.Info("Shutting down")
	return nil
}

// openCartStore opens the SQLite cart store at path, falling back to a
// no-op store when local persistence is unavailable. The returned func
// releases the store.
func openCartStore(ctx context.Context, lg *zap.Logger, path string) (cart.Store, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		lg.Warn("Creating cart directory failed, cart will not persist",
			zap.String("path", path), zap.Error(err))
		return cart.NopStore{}, func() {}
	}
	s, err := sqlite.Open(ctx, path)
	if err != nil {
		lg.Warn("Opening cart store failed, cart will not persist",
			zap.String("path", path), zap.Error(err))
		return cart.NopStore{}, func() {}
	}
	return s, func() {
		if err := s.Close(); err != nil {
			lg.Warn("Closing cart store", zap.Error(err))
		}
	}
}
