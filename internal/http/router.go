package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/rogerio-castellano/gerenciador-itens/docs"
	"github.com/rogerio-castellano/gerenciador-itens/internal/http/handlers"
	rl "github.com/rogerio-castellano/gerenciador-itens/internal/http/rate_limiter"
)

// LegacyAPIPath is always served as an alias of the configured API path.
const LegacyAPIPath = "/server.php"

// RouterOptions describe what NewRouter mounts besides the API.
type RouterOptions struct {
	APIPath        string
	MetricsPath    string
	MetricsHandler http.Handler
	// Web, when set, serves every path not claimed by the API.
	Web http.Handler
	// Traced wraps the router with otelhttp.
	Traced bool
}

// NewCORS allows any origin to call the API with the methods it supports.
func NewCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		OptionsSuccessStatus: http.StatusOK,
	})
}

func NewRouter(opts RouterOptions) http.Handler {
	if opts.APIPath == "" {
		opts.APIPath = "/api"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(rl.PeerAddr)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)

	r.Group(func(api chi.Router) {
		api.Use(NewCORS().Handler)
		if rl.Enabled() {
			api.Use(rl.Middleware(handlers.TooManyRequests))
		}
		api.HandleFunc(opts.APIPath, handlers.APIHandler)
		if opts.APIPath != LegacyAPIPath {
			api.HandleFunc(LegacyAPIPath, handlers.APIHandler)
		}
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, opts.MetricsHandler)
	}

	if opts.Web != nil {
		r.Mount("/", opts.Web)
	}

	if opts.Traced {
		return otelhttp.NewHandler(r, "gerenciador-itens")
	}
	return r
}
