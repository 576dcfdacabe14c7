package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vehiclegraph/vehiclegraph"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/api/gateway"
	"github.com/vehiclegraph/vehiclegraph/internal/config"
	mcpinternal "github.com/vehiclegraph/vehiclegraph/internal/mcp"
)

// requestTimeout bounds a gateway request. A query generating every field
// of an unseen vehicle needs one generation delay.
const requestTimeout = 60 * time.Second

// APIServer provides an HTTP API backed by a vehiclegraph Client.
type APIServer struct {
	client       *vehiclegraph.Client
	cfg          config.AppConfig
	version      string
	server       *Server
	router       chi.Router
	routerCalled bool
	onReady      func(net.Addr)
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *vehiclegraph.Client, cfg config.AppConfig, version string) *APIServer {
	return &APIServer{
		client:  client,
		cfg:     cfg,
		version: version,
		logger:  client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	path := a.cfg.GraphQLPath()

	gw := gateway.NewGateway(a.client.Vehicles,
		gateway.WithGraphiQL(a.cfg.GraphiQLEnabled()),
		gateway.WithMaxParallelism(a.cfg.MaxParallelism()),
		gateway.WithEndpoint(path),
		gateway.WithLogger(a.logger),
	)

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))
		r.Mount(path, gw.Routes())
	})

	// MCP streams responses and tracks sessions through headers, which
	// chi's Timeout middleware would break.
	mcpSrv := mcpinternal.NewServer(a.client.Vehicles, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))

	if handler := a.client.MetricsHandler(); handler != nil && a.cfg.MetricsEnabled() {
		router.Handle("/metrics", handler)
	}

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)
	router.Get("/", a.infoHandler)
}

type serviceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	GraphQL string `json:"graphql"`
	MCP     string `json:"mcp"`
}

func (a *APIServer) infoHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(serviceInfo{
		Name:    "vehiclegraph",
		Version: a.version,
		GraphQL: a.cfg.GraphQLPath(),
		MCP:     "/mcp",
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// OnReady registers fn to be called with the bound address once the server
// accepts connections.
func (a *APIServer) OnReady(fn func(net.Addr)) {
	a.onReady = fn
}

// ListenAndServe starts the HTTP server on the configured address.
func (a *APIServer) ListenAndServe() error {
	srv := NewServer(a.cfg.Addr(), a.logger)
	srv.OnReady(a.onReady)
	a.server = srv

	if a.routerCalled && a.router != nil {
		srv.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(srv.Router())
	}

	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
