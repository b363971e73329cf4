package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelarde/reservline-backend/api/controllers"
	webhookcontrollers "github.com/avelarde/reservline-backend/api/controllers/webhooks"
	"github.com/avelarde/reservline-backend/api/middleware"
	"github.com/avelarde/reservline-backend/internal/reservations"
	"github.com/avelarde/reservline-backend/internal/webhooks/vapi"
	"github.com/avelarde/reservline-backend/pkg/config"
	"github.com/avelarde/reservline-backend/pkg/db"
	"github.com/avelarde/reservline-backend/pkg/logger"
	"github.com/avelarde/reservline-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	reservationService reservations.Service,
	dispatcher *vapi.Dispatcher,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook", webhookcontrollers.VapiWebhook(dispatcher, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", controllers.CreateReservation(reservationService, logg))
			r.Get("/", controllers.ListReservations(reservationService, logg))
			r.Delete("/", controllers.CancelReservation(reservationService, logg))
		})
		r.Get("/availability", controllers.CheckAvailability(reservationService, logg))
	})

	return r
}
