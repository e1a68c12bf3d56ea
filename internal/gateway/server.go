package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/webcode-dev/webcode/internal/config"
	"github.com/webcode-dev/webcode/internal/event"
	"github.com/webcode-dev/webcode/internal/gateway/assets"
	"github.com/webcode-dev/webcode/internal/logging"
	"github.com/webcode-dev/webcode/internal/product"
	"github.com/webcode-dev/webcode/internal/theme"
)

// pageAssets holds the templates loaded once at startup.
type pageAssets struct {
	workbench    string
	workbenchDev string
	errorPage    string
	callbackPage []byte
}

func loadPageAssets() (*pageAssets, error) {
	read := func(name string) ([]byte, error) {
		return assets.FS.ReadFile(name)
	}
	workbench, err := read("workbench.html")
	if err != nil {
		return nil, err
	}
	workbenchDev, err := read("workbench-dev.html")
	if err != nil {
		return nil, err
	}
	errorPage, err := read("error.html")
	if err != nil {
		return nil, err
	}
	callbackPage, err := read("callback.html")
	if err != nil {
		return nil, err
	}
	return &pageAssets{
		workbench:    string(workbench),
		workbenchDev: string(workbenchDev),
		errorPage:    string(errorPage),
		callbackPage: callbackPage,
	}, nil
}

// Server is the gateway HTTP server.
type Server struct {
	cfg       *config.Config
	product   *product.Metadata
	theme     theme.Provider
	callbacks *CallbackBroker
	bus       *event.Bus
	assets    *pageAssets
	router    *chi.Mux
	httpSrv   *http.Server
	log       zerolog.Logger

	// fallback receives requests no route matched, letting an embedding
	// server take over instead of answering 404 here.
	fallback http.Handler
}

// New creates a Server. themeProvider may be nil, in which case the
// built-in default colors are used.
func New(cfg *config.Config, meta *product.Metadata, themeProvider theme.Provider) (*Server, error) {
	if meta == nil {
		meta = product.Default()
	}
	if themeProvider == nil {
		themeProvider = theme.Static{Colors: theme.DefaultColors()}
	}

	pages, err := loadPageAssets()
	if err != nil {
		return nil, fmt.Errorf("gateway: load templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		product:   meta,
		theme:     themeProvider,
		callbacks: NewCallbackBroker(),
		bus:       event.NewBus(),
		assets:    pages,
		router:    chi.NewRouter(),
		log:       logging.For("gateway"),
	}

	s.setupMiddleware()
	s.router.Handle("/*", http.HandlerFunc(s.dispatch))
	s.subscribeEvents()

	return s, nil
}

// SetFallback installs the handler that receives unmatched requests.
func (s *Server) SetFallback(h http.Handler) {
	s.fallback = h
}

// Broker exposes the callback broker, mainly for tests and embedding.
func (s *Server) Broker() *CallbackBroker {
	return s.callbacks
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "If-None-Match", "X-Request-ID"},
		MaxAge:         300,
	}))
}

// subscribeEvents logs broker activity at debug level.
func (s *Server) subscribeEvents() {
	log := func(e event.Event) {
		var payload map[string]any
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return
		}
		s.log.Debug().Str("event", string(e.Type)).Fields(payload).Msg("gateway event")
	}
	ctx := context.Background()
	for _, t := range []event.Type{event.CallbackRegistered, event.CallbackConsumed, event.RequestRejected} {
		if err := s.bus.Subscribe(ctx, t, log); err != nil {
			s.log.Warn().Err(err).Str("event", string(t)).Msg("event subscription failed")
		}
	}
}

// Router returns the underlying router, used by tests and by callers that
// mount the gateway inside a larger server.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: static streams may be large and slow.
	}
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server and the event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	if busErr := s.bus.Close(); err == nil {
		err = busErr
	}
	return err
}
