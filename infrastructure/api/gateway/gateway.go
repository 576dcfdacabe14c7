// Package gateway executes GraphQL queries against the vehicle resolver and
// serves the GraphiQL exploration page.
package gateway

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// DefaultMaxParallelism bounds concurrently running field resolvers per
// request when no option overrides it.
const DefaultMaxParallelism = 10

const maxBodyBytes = 1 << 20

var (
	errMissingQuery = errors.New("must provide query string")
	errBadVariables = errors.New("variables are invalid JSON")
)

// Request is a GraphQL request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithGraphiQL toggles serving the exploration page on GET requests without a
// query.
func WithGraphiQL(enabled bool) Option {
	return func(g *Gateway) { g.graphiql = enabled }
}

// WithMaxParallelism sets how many field resolvers may run at once.
func WithMaxParallelism(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.parallelism = n
		}
	}
}

// WithEndpoint sets the URL the exploration page sends queries to.
func WithEndpoint(endpoint string) Option {
	return func(g *Gateway) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// Gateway is an http.Handler that executes GraphQL queries.
type Gateway struct {
	schema      *graphql.Schema
	graphiql    bool
	parallelism int
	endpoint    string
	logger      *slog.Logger
}

// NewGateway parses the schema and binds it to the vehicle resolver.
func NewGateway(vehicles Vehicles, opts ...Option) *Gateway {
	g := &Gateway{
		graphiql:    true,
		parallelism: DefaultMaxParallelism,
		endpoint:    "/graphql",
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	root := &rootResolver{vehicles: vehicles, logger: g.logger}
	g.schema = graphql.MustParseSchema(schemaSDL, root, graphql.MaxParallelism(g.parallelism))
	return g
}

// Schema returns the schema definition served by the gateway.
func Schema() string {
	return schemaSDL
}

// Routes returns the chi router for the gateway with CORS applied.
func (g *Gateway) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Correlation-ID"},
		MaxAge:         300,
	}))

	router.Get("/", g.ServeHTTP)
	router.Post("/", g.ServeHTTP)

	return router
}

// ServeHTTP handles GET and POST GraphQL requests.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Query().Get("query") == "" && g.graphiql && acceptsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, GraphiQLHTML(g.endpoint))
		return
	}

	req, err := decodeRequest(w, r)
	if err != nil {
		g.logger.DebugContext(r.Context(), "rejected graphql request", "error", err)
		writeErrors(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeErrors(w, http.StatusBadRequest, errMissingQuery)
		return
	}

	resp := g.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		g.logger.DebugContext(r.Context(), "graphql errors", "count", len(resp.Errors), "first", resp.Errors[0].Message)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		g.logger.ErrorContext(r.Context(), "failed to write graphql response", "error", err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return Request{}, errBadVariables
			}
		}
		return req, nil

	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/graphql" {
			raw, err := io.ReadAll(body)
			if err != nil {
				return Request{}, err
			}
			req.Query = string(raw)
			return req, nil
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return Request{}, errors.New("body must be a JSON object with a query")
		}
		if req.Query == "" {
			req.Query = r.URL.Query().Get("query")
		}
		return req, nil

	default:
		return Request{}, errors.New("method not allowed")
	}
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

type errorBody struct {
	Errors []errorMessage `json:"errors"`
}

type errorMessage struct {
	Message string `json:"message"`
}

func writeErrors(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Errors: []errorMessage{{Message: err.Error()}}})
}
