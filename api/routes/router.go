package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opticore/lenscard-backend/api/controllers"
	"github.com/opticore/lenscard-backend/api/middleware"
	"github.com/opticore/lenscard-backend/internal/prescriptions"
	"github.com/opticore/lenscard-backend/internal/session"
	"github.com/opticore/lenscard-backend/pkg/config"
	"github.com/opticore/lenscard-backend/pkg/db"
	"github.com/opticore/lenscard-backend/pkg/logger"
	pkgredis "github.com/opticore/lenscard-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	sessions session.Service,
	prescriptionsSvc prescriptions.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// Typed nils must not leak into interface params.
	var redisP pkgredis.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(idempotencyStore, logg, cfg.Idempotency.SaveTTL))
			r.Post("/prescriptions", controllers.SavePrescription(sessions, prescriptionsSvc, logg))
		})
		r.Get("/prescriptions/nav/{direction}", controllers.NavigatePrescription(prescriptionsSvc, logg))
		r.Get("/prescriptions/{prescriptionNo}", controllers.GetPrescription(prescriptionsSvc, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.OpenSession(sessions, logg))
			r.Post("/{sessionId}/load/{prescriptionNo}", controllers.LoadSession(sessions, logg))
			r.Post("/{sessionId}/events", controllers.ApplySessionEvent(sessions, logg))
			r.Get("/{sessionId}", controllers.GetSession(sessions, logg))
		})
	})

	return r
}
