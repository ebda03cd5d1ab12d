package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/esc-directory/consultants/internal/api/handlers"
	mw "github.com/esc-directory/consultants/internal/api/middleware"
	"github.com/esc-directory/consultants/internal/services"
	"github.com/esc-directory/consultants/pkg/metrics"
)

type Dependencies struct {
	Consultants services.ConsultantService
	Directory   services.DirectoryService
	DB          handlers.Pinger
	Metrics     *metrics.Metrics

	CORSOrigins []string
	RateRPS     float64
	RateBurst   int
	// TrustProxy takes the client address from forwarding headers.
	TrustProxy bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	if dep.Metrics != nil {
		r.Use(mw.Metrics(dep.Metrics))
	}
	r.Use(mw.CORS(dep.CORSOrigins))
	if dep.RateRPS > 0 {
		r.Use(mw.NewRateLimiter(dep.RateRPS, dep.RateBurst).Handler)
	}
	r.Use(chimid.Compress(5))

	notFound := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	hh := handlers.NewHealthHandler(dep.DB)
	r.Get("/readyz", hh.Readiness)
	if dep.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", dep.Metrics.Handler())
	}

	ch := handlers.NewConsultantsHandler(dep.Consultants)
	dh := handlers.NewDirectoryHandler(dep.Directory)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", hh.Liveness)

		api.Route("/consultants", func(cr chi.Router) {
			cr.Get("/", ch.List)
			cr.Post("/", ch.Create)
			cr.Get("/{id}", ch.Get)
			cr.Put("/{id}", ch.Update)
			cr.Delete("/{id}", ch.Delete)
		})

		api.Get("/services", dh.Services)
		api.Get("/regions", dh.Regions)
		api.Get("/stats", dh.Stats)
	})

	return r
}
