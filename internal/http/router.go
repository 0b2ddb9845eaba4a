package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	platformmetrics "insurer/internal/platform/metrics"
	"insurer/pkg/platform/httputil"
	"insurer/pkg/platform/middleware/accesslog"
	"insurer/pkg/platform/middleware/requestid"
	"insurer/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// Config holds what the router needs beyond the module handlers.
type Config struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewRouter wires the public endpoints. The handler stays thin: every module
// delegates to its own service and business logic never lives here.
func NewRouter(cfg Config, modules ...Registrar) http.Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.MiddlewareWithClock(clock))
	r.Use(accesslog.Middleware(cfg.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handleHealth)
	if cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", platformmetrics.Handler(cfg.Registry))
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
