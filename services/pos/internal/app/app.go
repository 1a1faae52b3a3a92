package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/appetiteclub/pos/pkg"
	"github.com/appetiteclub/pos/pkg/config"
	"github.com/appetiteclub/pos/pkg/event"
	"github.com/appetiteclub/pos/pkg/logger"
	"github.com/appetiteclub/pos/services/pos/internal/board"
	"github.com/appetiteclub/pos/services/pos/internal/cart"
	"github.com/appetiteclub/pos/services/pos/internal/menu"
	"github.com/appetiteclub/pos/services/pos/internal/normalize"
	"github.com/appetiteclub/pos/services/pos/internal/pos"
	"github.com/appetiteclub/pos/services/pos/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

const (
	AppName    = "pos"
	AppVersion = "0.1.0"

	defaultPort     = ":8080"
	defaultNATSURL  = "nats://localhost:4222"
	shutdownTimeout = 10 * time.Second
)

// Defaults are the lowest-precedence configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":           "info",
		"web.port":            defaultPort,
		"webhook.base_url":    webhook.DefaultBaseURL,
		"webhook.timeout":     webhook.DefaultTimeout.String(),
		"board.poll_interval": board.DefaultPollInterval.String(),
		"board.late_after":    board.DefaultLateAfter.String(),
		"board.timezone":      "Local",
		"nats.url":            defaultNATSURL,
		"nats.enabled":        false,
		"sse.keepalive":       "30s",
	}
}

// App wires the POS service.
type App struct {
	config *config.Config
	logger logger.Logger

	catalog   *menu.Catalog
	client    *webhook.Client
	board     *board.Board
	poller    *board.Poller
	server    *http.Server
	publisher *pkg.NATSPublisher

	mu   sync.Mutex
	addr net.Addr
}

func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &App{config: cfg, logger: log}, nil
}

// Initialize builds every component from configuration.
func (a *App) Initialize(ctx context.Context) error {
	loc, err := a.location()
	if err != nil {
		return err
	}

	a.catalog, err = a.loadCatalog()
	if err != nil {
		return err
	}

	a.client = webhook.NewClient(
		webhook.ConfigFrom(a.config),
		a.logger,
		webhook.WithNormalizer(normalize.New(loc)),
	)

	var publisher event.Publisher
	if enabled, _ := a.config.GetBool("nats.enabled"); enabled {
		url := a.config.StringOr("nats.url", defaultNATSURL)
		a.publisher, err = pkg.NewNATSPublisher(url, AppName)
		if err != nil {
			return fmt.Errorf("cannot connect to NATS publisher: %w", err)
		}
		publisher = a.publisher
		a.logger.Info("NATS publisher initialized", "url", url)
	}

	var boardOpts []board.Option
	if publisher != nil {
		boardOpts = append(boardOpts, board.WithPublisher(publisher))
	}
	a.board = board.New(a.client, a.logger, boardOpts...)
	a.poller = board.NewPoller(a.board, a.config.DurationOr("board.poll_interval", board.DefaultPollInterval), a.logger)

	handler := pos.NewHandler(pos.HandlerDeps{
		Catalog:   a.catalog,
		Carts:     cart.NewStore(a.catalog),
		Orders:    a.client,
		Board:     a.board,
		Publisher: publisher,
	}, pos.HandlerOptions{
		LateAfter:    a.config.DurationOr("board.late_after", board.DefaultLateAfter),
		SSEKeepalive: a.config.DurationOr("sse.keepalive", 30*time.Second),
	}, a.logger)

	a.server = &http.Server{
		Addr:              a.config.StringOr("web.port", defaultPort),
		Handler:           a.Router(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Router mounts the handler behind the standard middleware stack.
func (a *App) Router(h *pos.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(pos.RequestLogger(a.logger))
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

// Handler returns the HTTP handler built by Initialize.
func (a *App) Handler() http.Handler {
	if a.server == nil {
		return nil
	}
	return a.server.Handler
}

// Run serves HTTP and polls the kitchen board until ctx is cancelled.
// Request contexts derive from ctx, so open streams end on shutdown.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("app is not initialized")
	}
	defer a.close()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	a.mu.Lock()
	a.addr = ln.Addr()
	a.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.poller.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Addr is the bound listen address once Run has started, or nil.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

func (a *App) close() {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("cannot close NATS publisher", "error", err)
	}
}

func (a *App) location() (*time.Location, error) {
	name := a.config.StringOr("board.timezone", "Local")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid board.timezone %q: %w", name, err)
	}
	return loc, nil
}

func (a *App) loadCatalog() (*menu.Catalog, error) {
	path, ok := a.config.GetString("menu.file")
	if !ok || path == "" {
		return menu.Default(), nil
	}
	catalog, err := menu.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load menu: %w", err)
	}
	a.logger.Info("menu loaded", "path", path, "items", catalog.Len())
	return catalog, nil
}
