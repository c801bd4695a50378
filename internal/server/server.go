package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sells-group/siteplan/internal/config"
	"github.com/sells-group/siteplan/internal/monitoring"
	"github.com/sells-group/siteplan/internal/store"
)

// Server exposes the site architecture engine over HTTP. All derived
// artifacts (tree, stats, locations) are recomputed from the stored record
// list on every request.
type Server struct {
	store         store.Store
	metrics       *monitoring.Metrics
	importLimiter *rate.Limiter
}

// New creates a Server around the given store.
func New(st store.Store, m *monitoring.Metrics, cfg config.ServerConfig) *Server {
	perMin := cfg.ImportRatePerMin
	if perMin <= 0 {
		perMin = 30
	}
	burst := cfg.ImportBurst
	if burst <= 0 {
		burst = 5
	}
	return &Server{
		store:         st,
		metrics:       m,
		importLimiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), burst),
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/tenants/{tenant}/sitemap", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/stats", s.handleStats)
		r.Get("/locations", s.handleLocations)
		r.Get("/imports", s.handleListImports)
		r.With(s.importRateLimit).Post("/import", s.handleImport)
		r.Patch("/pages", s.handleUpdatePage)
		r.Delete("/pages", s.handleDeletePage)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
